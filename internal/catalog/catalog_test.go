package catalog

import (
	"testing"

	"github.com/fenwick-dns/dnsd/internal/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
[[zones]]
origin = "example.com."

  [[zones.records]]
  domain-name = "www"
  ttl = 3600
  class = "IN"
  type = "A"
  host-address = "192.0.2.1"

  [[zones.records]]
  domain-name = "@"
  ttl = 86400
  class = "IN"
  type = "NS"
  nsdname = "ns1.example.com."

  [[zones.records]]
  domain-name = "ns1"
  ttl = 86400
  class = "IN"
  type = "A"
  host-address = "192.0.2.53"

[[zones]]
origin = "other.test."

  [[zones.records]]
  domain-name = "@"
  ttl = 300
  class = "IN"
  type = "A"
  host-address = "203.0.113.9"
`

func TestDecode_BuildsOrderedCatalog(t *testing.T) {
	cat, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)
	require.Len(t, cat.Zones, 2)
	assert.Equal(t, "example.com.", cat.Zones[0].Origin)
	assert.Equal(t, "other.test.", cat.Zones[1].Origin)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	doc := `
[[zones]]
origin = "example.com."
  [[zones.records]]
  domain-name = "www"
  ttl = 3600
  class = "IN"
  type = "A"
  host-address = "192.0.2.1"
  bogus-field = "oops"
`
	_, err := Decode([]byte(doc))
	assert.Error(t, err)
}

func TestTryLookup_AuthoritativeA(t *testing.T) {
	cat, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)

	rec, origin, ok := cat.TryLookup(dns.Question{Name: "www.example.com", Type: uint16(dns.TypeA), Class: uint16(dns.ClassIN)})
	require.True(t, ok)
	assert.Equal(t, "example.com.", origin)
	ip, ok := rec.(*dns.IPRecord)
	require.True(t, ok)
	assert.Equal(t, "www.example.com.", ip.Header().Name)
}

func TestTryLookup_ApexNS(t *testing.T) {
	cat, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)

	rec, _, ok := cat.TryLookup(dns.Question{Name: "example.com", Type: uint16(dns.TypeNS), Class: uint16(dns.ClassIN)})
	require.True(t, ok)
	assert.True(t, dns.RequiresGlue(rec))
}

func TestTryLookup_NoMatchingZone(t *testing.T) {
	cat, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)

	_, _, ok := cat.TryLookup(dns.Question{Name: "nowhere.invalid", Type: uint16(dns.TypeA), Class: uint16(dns.ClassIN)})
	assert.False(t, ok)
}

func TestTryLookup_NameInZoneButNoSuchRecord(t *testing.T) {
	cat, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)

	_, _, ok := cat.TryLookup(dns.Question{Name: "ghost.example.com", Type: uint16(dns.TypeA), Class: uint16(dns.ClassIN)})
	assert.False(t, ok)
}

func TestTryLookup_TypeMismatchMisses(t *testing.T) {
	cat, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)

	_, _, ok := cat.TryLookup(dns.Question{Name: "www.example.com", Type: uint16(dns.TypeMX), Class: uint16(dns.ClassIN)})
	assert.False(t, ok)
}

func TestTryLookup_CatalogOrderShadowsLongerSuffix(t *testing.T) {
	// A more specific zone listed *after* a shorter-suffix zone never gets
	// searched for a name the shorter zone's origin also suffix-matches:
	// the first matching zone wins even when it holds no such record.
	doc := `
[[zones]]
origin = "example.com."
  [[zones.records]]
  domain-name = "@"
  ttl = 60
  class = "IN"
  type = "A"
  host-address = "10.0.0.1"

[[zones]]
origin = "sub.example.com."
  [[zones.records]]
  domain-name = "@"
  ttl = 60
  class = "IN"
  type = "A"
  host-address = "10.0.0.2"
`
	cat, err := Decode([]byte(doc))
	require.NoError(t, err)

	_, _, ok := cat.TryLookup(dns.Question{Name: "sub.example.com", Type: uint16(dns.TypeA), Class: uint16(dns.ClassIN)})
	assert.False(t, ok, "example.com. matches first and holds no sub.example.com record, so lookup stops there")
}

func TestFromRaw_RejectsMissingRequiredField(t *testing.T) {
	raw := RawCatalog{Zones: []RawZone{{
		Origin: "example.com.",
		Records: []RawRecord{{
			DomainName: "www",
			TTL:        300,
			Class:      "IN",
			Type:       "A",
			// HostAddress intentionally omitted
		}},
	}}}
	_, err := FromRaw(raw)
	assert.Error(t, err)
}
