package nacos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerConfigs(t *testing.T) {
	configs, err := ParseServerConfigs("10.0.0.1:8848, 10.0.0.2:8849")
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "10.0.0.1", configs[0].IpAddr)
	assert.Equal(t, uint64(8848), configs[0].Port)
	assert.Equal(t, "10.0.0.2", configs[1].IpAddr)
	assert.Equal(t, uint64(8849), configs[1].Port)
}

func TestParseServerConfigs_Invalid(t *testing.T) {
	for _, addrs := range []string{"", "localhost", "localhost:abc", " , "} {
		t.Run(addrs, func(t *testing.T) {
			_, err := ParseServerConfigs(addrs)
			assert.Error(t, err)
		})
	}
}

func TestResolveBaseURL_EmptyNameUsesFallback(t *testing.T) {
	c := &Client{}
	assert.Equal(t, "http://localhost:3002", c.ResolveBaseURL("", "http://localhost:3002"))
}
