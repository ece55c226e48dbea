package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGConfig holds the connection settings for the profile database.
type PGConfig struct {
	ConnectionString string        `env:"PG_CONN_URL,required"`
	MaxOpenConns     int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns     int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	RetryAttempts    int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
}

// ConnectPG establishes a connection pool to the profile database with
// linear-backoff retries so transient startup races don't abort the process.
func ConnectPG(ctx context.Context, cfg PGConfig) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns

	for i := range cfg.RetryAttempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err == nil {
			if err := pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, ErrFailedToOpenDBConnection
}

// PGSource fetches a user's profile from the externally-owned profiles
// table. The profile store is the sole writer of that table; this source
// only ever reads.
type PGSource struct {
	pool   *pgxpool.Pool
	userID uuid.UUID
}

// NewPGSource creates a ProfileSource reading the given user's profile row.
func NewPGSource(pool *pgxpool.Pool, userID uuid.UUID) *PGSource {
	return &PGSource{pool: pool, userID: userID}
}

func (s *PGSource) FetchProfile(ctx context.Context) (*Profile, error) {
	const query = `
		SELECT subscription_type, trial_start, trial_end, is_admin
		FROM profiles
		WHERE id = $1`

	var (
		subType    *string
		trialStart *time.Time
		trialEnd   *time.Time
		isAdmin    bool
	)
	err := s.pool.QueryRow(ctx, query, s.userID).Scan(&subType, &trialStart, &trialEnd, &isAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		// Missing profile is a valid state, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToFetchProfile, err)
	}

	profile := &Profile{
		TrialStart: trialStart,
		TrialEnd:   trialEnd,
		IsAdmin:    isAdmin,
	}
	if subType != nil {
		profile.Type = Type(*subType)
	}
	return profile, nil
}
