package registry

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"

	consul "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

var ErrServiceNotFound = errors.New("no healthy instance found")

// Service describes one instance registered in Consul.
type Service struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
	// HealthURL enables an HTTP check; GRPCHealthAddr enables a gRPC health check.
	// When both are set the gRPC check wins.
	HealthURL      string
	GRPCHealthAddr string
}

type ConsulRegistry struct {
	client *consul.Client
	logger *zerolog.Logger
}

func NewConsulRegistry(addr string, logger *zerolog.Logger) (*ConsulRegistry, error) {
	cfg := consul.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}

	client, err := consul.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &ConsulRegistry{client: client, logger: logger}, nil
}

func (r *ConsulRegistry) Register(svc Service) error {
	registration := &consul.AgentServiceRegistration{
		ID:      svc.ID,
		Name:    svc.Name,
		Address: svc.Address,
		Port:    svc.Port,
		Tags:    svc.Tags,
		Check:   serviceCheck(svc),
	}

	if err := r.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service %s: %w", svc.Name, err)
	}

	r.logger.Info().Str("id", svc.ID).Str("name", svc.Name).Msg("service registered in consul")

	return nil
}

func (r *ConsulRegistry) Deregister(serviceID string) error {
	if err := r.client.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("failed to deregister service %s: %w", serviceID, err)
	}

	r.logger.Info().Str("id", serviceID).Msg("service deregistered from consul")

	return nil
}

// Resolve returns the host:port of a random passing instance of name.
func (r *ConsulRegistry) Resolve(name string) (string, error) {
	entries, _, err := r.client.Health().Service(name, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("failed to query consul for %s: %w", name, err)
	}

	return pickInstance(name, entries)
}

func pickInstance(name string, entries []*consul.ServiceEntry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	entry := entries[rand.IntN(len(entries))]

	host := entry.Service.Address
	if host == "" {
		host = entry.Node.Address
	}

	return net.JoinHostPort(host, strconv.Itoa(entry.Service.Port)), nil
}

func serviceCheck(svc Service) *consul.AgentServiceCheck {
	switch {
	case svc.GRPCHealthAddr != "":
		return &consul.AgentServiceCheck{
			GRPC:                           svc.GRPCHealthAddr,
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		}
	case svc.HealthURL != "":
		return &consul.AgentServiceCheck{
			HTTP:                           svc.HealthURL,
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		}
	default:
		return nil
	}
}
