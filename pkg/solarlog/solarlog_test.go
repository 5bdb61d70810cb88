package solarlog

import (
	"log/slog"

	"github.com/raterudder/solarlog/pkg/log"
)

// fullSnapshot is a snapshot as returned by a SolarLog 300.
const fullSnapshot = `{
	"801": {
		"170": {
			"100": "21.06.21 13:02:00",
			"101": "1234.5",
			"102": "1301",
			"103": "231",
			"104": "412",
			"105": "8120",
			"106": "10450",
			"107": "221300",
			"108": "3120450",
			"109": "41231450",
			"110": "512",
			"111": "6120",
			"112": "7310",
			"113": "150210",
			"114": "2140230",
			"115": "30120540",
			"116": "9800"
		}
	}
}`

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}
