package healthz

import (
	"context"
	"net"
	"strconv"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/ma-za-kpe/vibejudge/queue"
	"github.com/ma-za-kpe/vibejudge/vjconfig"
)

// NetworkCheck verifies TCP connectivity to host:port, the primitive
// ModelEndpointCheck builds on.
func NetworkCheck(ctx context.Context, name, host string, port int) Status {
	if host == "" {
		return unhealthy(name, "host not configured", nil)
	}
	address := net.JoinHostPort(host, strconv.Itoa(port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return unhealthy(name, "failed to connect to "+address, map[string]any{"error": err.Error()})
	}
	conn.Close()
	return healthy(name, "connected to "+address)
}

// EtcdCheck dials cfg's endpoints and performs a bounded Get, verifying
// the gate's backing store actually answers rather than merely accepts
// a TCP connection.
func EtcdCheck(ctx context.Context, cfg vjconfig.EtcdConfig) Status {
	if len(cfg.Endpoints) == 0 {
		return unhealthy("etcd", "no endpoints configured", nil)
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.GetDialTimeout(),
	})
	if err != nil {
		return unhealthy("etcd", "failed to construct client", map[string]any{"error": err.Error()})
	}
	defer client.Close()

	getCtx, cancel := context.WithTimeout(ctx, cfg.GetDialTimeout())
	defer cancel()

	if _, err := client.Get(getCtx, "/vibejudge/healthz"); err != nil {
		return unhealthy("etcd", "get failed", map[string]any{"error": err.Error(), "endpoints": cfg.Endpoints})
	}
	return healthy("etcd", "reachable")
}

// RedisCheck dials and pings cfg's URL via queue.NewRedisClient, which
// already pings on construction; a successful construction is itself
// the reachability proof.
func RedisCheck(ctx context.Context, cfg vjconfig.RedisConfig) Status {
	if cfg.URL == "" {
		return unhealthy("redis", "no url configured", nil)
	}

	client, err := queue.NewRedisClient(queue.RedisOptions{URL: cfg.URL})
	if err != nil {
		return unhealthy("redis", "failed to connect", map[string]any{"error": err.Error()})
	}
	defer client.Close()
	return healthy("redis", "reachable")
}

// ModelEndpointCheck verifies TCP reachability to the judge model
// provider's endpoint. converse.Client has no uniform ping RPC (spec
// §9: Converse is the only shape), so this is a best-effort network
// check, not a full request round-trip.
func ModelEndpointCheck(ctx context.Context, cfg vjconfig.EndpointConfig) Status {
	return NetworkCheck(ctx, "model_endpoint", cfg.Host, cfg.Port)
}

// CheckAll runs every configured dependency check and combines them.
// A dependency with no configuration (e.g. redis, when no redis url is
// set) is reported unhealthy rather than
// silently skipped, since an operator relying on healthz wants to know
// the gap exists.
func CheckAll(ctx context.Context, cfg vjconfig.Config) Status {
	return Combine(
		EtcdCheck(ctx, cfg.Etcd),
		RedisCheck(ctx, cfg.Redis),
		ModelEndpointCheck(ctx, cfg.ModelEndpoint),
	)
}
