package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeOctetStream = "application/octet-stream"
)

// 列表接口分页上限
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)
