package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Límites del pool. Las transacciones de traslado bloquean filas (FOR UPDATE) y deben ser cortas.
const (
	poolMaxConns        = 25
	poolMinConns        = 2
	poolMaxConnLifetime = time.Hour
	poolMaxConnIdle     = 30 * time.Minute
	poolHealthCheck     = time.Minute
	poolLockTimeout     = "5s"
)

// NewPool crea el pool PostgreSQL de la farmacia.
// Con ForceIPv4 el host (de DATABASE_URL o DB_HOST) se traduce a IPv4 tanto en el DSN como en cada dial.
// Cada conexión registra el codec NUMERIC -> decimal y fija lock_timeout para que un FOR UPDATE no espere indefinidamente.
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	v4 := ipv4Lookup{fallbackDNS: cfg.FallbackDNS}
	dsn := cfg.ConnectionString()
	if cfg.ForceIPv4 {
		dsn = v4.rewriteDSN(ctx, cfg)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if cfg.ForceIPv4 {
		poolConfig.ConnConfig.DialFunc = v4.dial
	}

	poolConfig.MaxConns = poolMaxConns
	poolConfig.MinConns = poolMinConns
	poolConfig.MaxConnLifetime = poolMaxConnLifetime
	poolConfig.MaxConnIdleTime = poolMaxConnIdle
	poolConfig.HealthCheckPeriod = poolHealthCheck
	poolConfig.ConnConfig.RuntimeParams["lock_timeout"] = poolLockTimeout
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "farmacia-api"

	// precios en NUMERIC(12,2) -> shopspring/decimal
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Bool("ipv4", cfg.ForceIPv4).
		Int32("max_conns", poolMaxConns).
		Msg("pool PostgreSQL listo")
	return pool, nil
}

// ipv4Lookup traduce hostnames a IPv4. Docker suele no tener IPv6 y algunos proveedores publican solo AAAA
// en el DNS del contenedor; en ese caso se reintenta contra fallbackDNS.
type ipv4Lookup struct {
	fallbackDNS string
}

func (l ipv4Lookup) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := l.resolve(ctx, host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// rewriteDSN devuelve el DSN con el host ya resuelto; si no hay IPv4 deja el original.
func (l ipv4Lookup) rewriteDSN(ctx context.Context, cfg config.DBConfig) string {
	if cfg.DatabaseURL == "" {
		if ip, err := l.resolve(ctx, cfg.Host); err == nil {
			cfg.Host = ip
		}
		return cfg.DSN()
	}
	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return cfg.DatabaseURL
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ip, err := l.resolve(ctx, u.Hostname())
	if err != nil {
		return cfg.DatabaseURL
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}

func (l ipv4Lookup) resolve(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", fmt.Errorf("%s es IPv6", host)
		}
		return host, nil
	}
	ip, err := firstIPv4(ctx, net.DefaultResolver, host)
	if err == nil || l.fallbackDNS == "" {
		return ip, err
	}
	alt := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", l.fallbackDNS)
		},
	}
	return firstIPv4(ctx, alt, host)
}

func firstIPv4(ctx context.Context, r *net.Resolver, host string) (string, error) {
	ips, err := r.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip.String(), nil
		}
	}
	return "", fmt.Errorf("%s: sin IPv4", host)
}
