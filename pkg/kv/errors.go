package kv

import "errors"

var (
	// ErrStoreDirRequired is returned when a file-backed store is created without a directory.
	ErrStoreDirRequired = errors.New("kv.store_dir_required")

	// ErrFailedToOpenStore indicates the backing database could not be opened or initialized.
	ErrFailedToOpenStore = errors.New("kv.failed_to_open_store")

	// ErrStoreReadFailed indicates a read against the backing store failed.
	ErrStoreReadFailed = errors.New("kv.store_read_failed")

	// ErrStoreWriteFailed indicates a write against the backing store failed.
	ErrStoreWriteFailed = errors.New("kv.store_write_failed")

	// ErrFailedToParseRedisURL indicates the Redis connection URL is malformed.
	ErrFailedToParseRedisURL = errors.New("kv.failed_to_parse_redis_url")

	// ErrRedisNotReady indicates all Redis connection attempts failed.
	ErrRedisNotReady = errors.New("kv.redis_not_ready")
)
