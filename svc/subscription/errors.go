package subscription

import "errors"

var (
	// ErrRefreshInFlight indicates a Refresh was requested while another is outstanding.
	ErrRefreshInFlight = errors.New("subscription.refresh_in_flight")

	// ErrFailedToFetchProfile indicates the profile store query failed.
	ErrFailedToFetchProfile = errors.New("subscription.failed_to_fetch_profile")

	// ErrFailedToParseDBConfig indicates the database connection string is malformed.
	ErrFailedToParseDBConfig = errors.New("subscription.failed_to_parse_db_config")

	// ErrFailedToOpenDBConnection indicates all connection attempts to the profile database failed.
	ErrFailedToOpenDBConnection = errors.New("subscription.failed_to_open_db_connection")
)
