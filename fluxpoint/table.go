// Public domain.

package fluxpoint

import (
	"fmt"
	"strings"
)

// Table formats points as a fixed-width text table, one line per bin.
// Upper limits show the limit in the flux column marked with <.
func Table(pts []Point) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%10s %10s %10s %13s %12s %8s\n",
		"e_min", "e_max", "e_ref", "dnde", "dnde_err", "ts")
	for _, p := range pts {
		if p.IsUL {
			fmt.Fprintf(&b, "%10.4g %10.4g %10.4g <%12.4g %12s %8.2f\n",
				p.EMin, p.EMax, p.ERef, p.ULDnDe, "", p.TS)
			continue
		}
		fmt.Fprintf(&b, "%10.4g %10.4g %10.4g %13.4g %12.4g %8.2f\n",
			p.EMin, p.EMax, p.ERef, p.DnDe, p.DnDeErr, p.TS)
	}
	return b.String()
}
