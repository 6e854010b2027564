package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fenwick-dns/dnsd/internal/catalog"
	"github.com/fenwick-dns/dnsd/internal/dns"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: print-zone path/to/catalog.toml\n")
		os.Exit(2)
	}
	path := flag.Arg(0)
	cat, err := catalog.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	for _, z := range cat.Zones {
		fmt.Printf("ORIGIN: %s\n", z.Origin)
		fmt.Println("RECORDS:")

		recs := z.Records()
		sort.Slice(recs, func(i, j int) bool {
			a, b := recs[i].Header(), recs[j].Header()
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return recs[i].Type() < recs[j].Type()
		})

		for _, rr := range recs {
			fmt.Printf("  %s\n", formatRecord(rr))
		}
	}
}

// formatRecord renders a record roughly as a zone-file line, dispatching on
// the concrete type rather than a generic RDATA blob.
func formatRecord(rr dns.Record) string {
	h := rr.Header()
	switch rec := rr.(type) {
	case *dns.IPRecord:
		return fmt.Sprintf("%s %d IN %s %s", h.Name, h.TTL, rr.Type(), rec.Addr.String())
	case *dns.NameRecord:
		return fmt.Sprintf("%s %d IN %s %s", h.Name, h.TTL, rr.Type(), rec.Target)
	case *dns.MXRecord:
		return fmt.Sprintf("%s %d IN MX %d %s", h.Name, h.TTL, rec.Preference, rec.Exchange)
	case *dns.SOARecord:
		return fmt.Sprintf("%s %d IN SOA %s %s %d %d %d %d %d",
			h.Name, h.TTL, rec.MName, rec.RName, rec.Serial, rec.Refresh, rec.Retry, rec.Expire, rec.Minimum)
	default:
		return fmt.Sprintf("%s %d IN %s (opaque)", h.Name, h.TTL, rr.Type())
	}
}
