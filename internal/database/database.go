package database

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the subset of *pgxpool.Pool the gateway needs. pgxmock's pool
// satisfies it too, which is how store tests run without a server.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// DB owns the shared connection pool.
type DB struct {
	Pool Pool
}

// Options describe how to reach the relational store.
type Options struct {
	Protocol string // postgresql | postgres
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int32
}

// DSN renders the connection string. Credentials are escaped.
func (o Options) DSN() string {
	u := url.URL{
		Scheme: o.Protocol,
		User:   url.UserPassword(o.User, o.Password),
		Host:   net.JoinHostPort(o.Host, o.Port),
		Path:   "/" + o.Name,
	}
	return u.String()
}

// Redacted is DSN with the password masked, safe for logs.
func (o Options) Redacted() string {
	u := url.URL{
		Scheme: o.Protocol,
		User:   url.UserPassword(o.User, "xxxxx"),
		Host:   net.JoinHostPort(o.Host, o.Port),
		Path:   "/" + o.Name,
	}
	return u.String()
}

// New parses opts and builds the pool. pgxpool connects lazily, so a nil
// error does not mean the server is reachable; callers ping separately.
func New(ctx context.Context, opts Options) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(opts.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
}
