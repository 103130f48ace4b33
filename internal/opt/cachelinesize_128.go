//go:build ksynx_cachelinesize_128

package opt

const CacheLineSize_ = 128
