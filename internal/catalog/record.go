// Package catalog implements the in-memory authoritative zone catalog: an
// ordered list of zones, each an ordered list of records, loaded once at
// startup from a TOML file and never mutated afterward.
package catalog

import (
	"fmt"
	"net"
	"strings"

	"github.com/fenwick-dns/dnsd/internal/dns"
)

// RawRecord is the TOML shape of one catalog record. Every zone record type
// (A, AAAA, NS, CNAME, PTR, MX, SOA) decodes into this struct; which fields
// apply is determined by Type. Hyphenated TOML keys map onto struct tags
// because the catalog file format favors readability over Go field-naming
// conventions.
type RawRecord struct {
	DomainName string `toml:"domain-name"`
	TTL        uint32 `toml:"ttl"`
	Class      string `toml:"class"`
	Type       string `toml:"type"`

	HostAddress string `toml:"host-address,omitempty"`
	CName       string `toml:"cname,omitempty"`
	NSDName     string `toml:"nsdname,omitempty"`
	PTRDName    string `toml:"ptrdname,omitempty"`

	Preference uint16 `toml:"preference,omitempty"`
	Exchange   string `toml:"exchange,omitempty"`

	MName   string `toml:"mname,omitempty"`
	RName   string `toml:"rname,omitempty"`
	Serial  uint32 `toml:"serial,omitempty"`
	Refresh uint32 `toml:"refresh,omitempty"`
	Retry   uint32 `toml:"retry,omitempty"`
	Expire  uint32 `toml:"expire,omitempty"`
	Minimum uint32 `toml:"minimum,omitempty"`
}

// RawZone is the TOML shape of one zone entry in the catalog file.
type RawZone struct {
	Origin  string      `toml:"origin"`
	Records []RawRecord `toml:"records"`
}

// RawCatalog is the top-level TOML document shape.
type RawCatalog struct {
	Zones []RawZone `toml:"zones"`
}

var typeNames = map[string]dns.RecordType{
	"A":     dns.TypeA,
	"AAAA":  dns.TypeAAAA,
	"NS":    dns.TypeNS,
	"CNAME": dns.TypeCNAME,
	"PTR":   dns.TypePTR,
	"MX":    dns.TypeMX,
	"SOA":   dns.TypeSOA,
}

// fqdn computes a record's fully-qualified name within a zone. A domain-name
// of "@" refers to the zone apex.
func fqdn(domainName, origin string) string {
	if domainName == "@" {
		return origin
	}
	return domainName + "." + origin
}

// toRecord builds the wire-format dns.Record this catalog entry describes.
// owner is the record's fully-qualified name (see fqdn).
func (r RawRecord) toRecord(owner string) (dns.Record, error) {
	if r.Class != "IN" {
		return nil, fmt.Errorf("catalog: unsupported class %q for %s", r.Class, owner)
	}
	rt, ok := typeNames[strings.ToUpper(r.Type)]
	if !ok {
		return nil, fmt.Errorf("catalog: unsupported type %q for %s", r.Type, owner)
	}
	h := dns.NewRRHeader(owner, dns.ClassIN, r.TTL)

	switch rt {
	case dns.TypeA, dns.TypeAAAA:
		if r.HostAddress == "" {
			return nil, fmt.Errorf("catalog: %s record for %s missing host-address", r.Type, owner)
		}
		ip := net.ParseIP(r.HostAddress)
		if ip == nil {
			return nil, fmt.Errorf("catalog: %s record for %s has invalid host-address %q", r.Type, owner, r.HostAddress)
		}
		return dns.NewIPRecord(h, ip), nil
	case dns.TypeCNAME:
		if r.CName == "" {
			return nil, fmt.Errorf("catalog: CNAME record for %s missing cname", owner)
		}
		return dns.NewCNAMERecord(h, r.CName), nil
	case dns.TypeNS:
		if r.NSDName == "" {
			return nil, fmt.Errorf("catalog: NS record for %s missing nsdname", owner)
		}
		return dns.NewNSRecord(h, r.NSDName), nil
	case dns.TypePTR:
		if r.PTRDName == "" {
			return nil, fmt.Errorf("catalog: PTR record for %s missing ptrdname", owner)
		}
		return dns.NewPTRRecord(h, r.PTRDName), nil
	case dns.TypeMX:
		if r.Exchange == "" {
			return nil, fmt.Errorf("catalog: MX record for %s missing exchange", owner)
		}
		return dns.NewMXRecord(h, r.Preference, r.Exchange), nil
	case dns.TypeSOA:
		if r.MName == "" || r.RName == "" {
			return nil, fmt.Errorf("catalog: SOA record for %s missing mname/rname", owner)
		}
		return dns.NewSOARecord(h, r.MName, r.RName, r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum), nil
	default:
		return nil, fmt.Errorf("catalog: unhandled type %q for %s", r.Type, owner)
	}
}
