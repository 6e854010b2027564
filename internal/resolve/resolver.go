// Package resolve implements the authoritative resolution step: answering a
// query directly from the zone catalog, with no recursion and no upstream
// traffic.
package resolve

import (
	"github.com/fenwick-dns/dnsd/internal/catalog"
	"github.com/fenwick-dns/dnsd/internal/dns"
)

// TryResolve attempts to answer query's first question from cat, mutating
// query into a response in place. It returns whether a local answer was
// produced; false means the caller should fall through to forwarding.
//
// On success the response has QR=1, AA=1 (authoritative for catalog data),
// RA=1 (recursion is available via forwarding, even though this step didn't
// use it), and RCODE=NOERROR. A record flagged as requiring glue (NS and
// CNAME) gets a best-effort A lookup for its target appended to the
// additional section; a missing glue record is not a failure.
func TryResolve(cat *catalog.Catalog, query *dns.Packet) bool {
	if len(query.Questions) == 0 {
		return false
	}
	q := query.Questions[0]
	if q.Class != uint16(dns.ClassIN) {
		return false
	}

	rec, _, ok := cat.TryLookup(q)
	if !ok {
		return false
	}
	// The catalog record's own header carries its stored owner name, but the
	// answer must echo the question's qname (RFC 1035 §4.1.3, §7.3): set it
	// explicitly rather than trusting whatever case/dot form the catalog used.
	query.AddAnswer(dns.CloneWithName(rec, q.Name))

	if dns.RequiresGlue(rec) {
		if target, ok := glueTarget(rec); ok {
			target = dns.NormalizeName(target)
			glueQ := dns.Question{Name: target, Type: uint16(dns.TypeA), Class: q.Class}
			if glue, _, ok := cat.TryLookup(glueQ); ok {
				query.AddAdditional(dns.CloneWithName(glue, target))
			}
		}
	}

	query.Header.Flags |= dns.QRFlag | dns.RAFlag | dns.AAFlag
	query.Header.Flags = (query.Header.Flags &^ dns.RCodeMask) | uint16(dns.RCodeNoError)
	return true
}

// glueTarget extracts the name a glue lookup should be performed for: the
// nsdname of an NS record or the cname of a CNAME record. Both are
// NameRecords at the wire-codec level.
func glueTarget(rec dns.Record) (string, bool) {
	nr, ok := rec.(*dns.NameRecord)
	if !ok {
		return "", false
	}
	return nr.Target, true
}
