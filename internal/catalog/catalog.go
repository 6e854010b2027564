package catalog

import (
	"strings"

	"github.com/fenwick-dns/dnsd/internal/dns"
)

// entry pairs a built wire-format record with its fully-qualified owner
// name, computed once at load time so lookups never re-derive it.
type entry struct {
	owner string
	rec   dns.Record
}

// Zone is one authoritative zone: an origin and its ordered records.
type Zone struct {
	Origin  string
	entries []entry
}

// Records returns the zone's records in load order; each record's header
// carries its fully-qualified owner name. Meant for read-only inspection
// (e.g. dumping a loaded catalog), not for the lookup hot path.
func (z Zone) Records() []dns.Record {
	recs := make([]dns.Record, len(z.entries))
	for i, e := range z.entries {
		recs[i] = e.rec
	}
	return recs
}

// Catalog is the full, immutable set of authoritative zones, in the order
// they appeared in the source file. Order matters: TryLookup matches the
// first zone whose origin suffixes the query name, not the longest one.
type Catalog struct {
	Zones []Zone
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// TryLookup implements the catalog's one lookup operation. It returns the
// matching record, the origin of the zone it was found in, and whether a
// match was found at all.
//
// Algorithm (catalog order, not longest-suffix):
//  1. Normalize the question's name.
//  2. Walk zones in catalog order; skip any whose origin is not a suffix of
//     the name.
//  3. Search only the first matching zone. Return the first record whose
//     normalized owner equals the name and whose type/class equal the
//     question's.
func (c *Catalog) TryLookup(q dns.Question) (dns.Record, string, bool) {
	qname := normalize(q.Name)
	for _, zone := range c.Zones {
		originNorm := normalize(zone.Origin)
		if qname != originNorm && !strings.HasSuffix(qname, "."+originNorm) {
			continue
		}
		for _, e := range zone.entries {
			if normalize(e.owner) != qname {
				continue
			}
			if uint16(e.rec.Type()) != q.Type {
				continue
			}
			if e.rec.Header().Class != q.Class {
				continue
			}
			return e.rec, zone.Origin, true
		}
		return nil, "", false
	}
	return nil, "", false
}

// FromRaw builds an immutable Catalog from a decoded TOML document,
// resolving each record's owner name and type-specific wire representation
// up front so TryLookup does no parsing at request time.
func FromRaw(raw RawCatalog) (*Catalog, error) {
	cat := &Catalog{Zones: make([]Zone, 0, len(raw.Zones))}
	for _, rz := range raw.Zones {
		zone := Zone{Origin: rz.Origin, entries: make([]entry, 0, len(rz.Records))}
		for _, rr := range rz.Records {
			owner := fqdn(rr.DomainName, rz.Origin)
			rec, err := rr.toRecord(owner)
			if err != nil {
				return nil, err
			}
			zone.entries = append(zone.entries, entry{owner: owner, rec: rec})
		}
		cat.Zones = append(cat.Zones, zone)
	}
	return cat, nil
}
