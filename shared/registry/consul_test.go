package registry

import (
	"testing"

	consul "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickInstance(t *testing.T) {
	_, err := pickInstance("blog-service", nil)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	addr, err := pickInstance("blog-service", []*consul.ServiceEntry{{
		Node:    &consul.Node{Address: "10.0.0.5"},
		Service: &consul.AgentService{Port: 5001},
	}})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:5001", addr)

	addr, err = pickInstance("blog-service", []*consul.ServiceEntry{{
		Node:    &consul.Node{Address: "10.0.0.5"},
		Service: &consul.AgentService{Address: "blog", Port: 5001},
	}})
	require.NoError(t, err)
	assert.Equal(t, "blog:5001", addr)
}

func TestServiceCheck(t *testing.T) {
	assert.Nil(t, serviceCheck(Service{}))

	check := serviceCheck(Service{HealthURL: "http://blog:5001/health"})
	require.NotNil(t, check)
	assert.Equal(t, "http://blog:5001/health", check.HTTP)
	assert.Empty(t, check.GRPC)

	check = serviceCheck(Service{HealthURL: "http://blog:5001/health", GRPCHealthAddr: "blog:5002"})
	require.NotNil(t, check)
	assert.Equal(t, "blog:5002", check.GRPC)
	assert.Empty(t, check.HTTP)
}
