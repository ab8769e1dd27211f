package intercept

import (
	"fmt"
	"log/slog"

	"github.com/chief111elf/proxymetrics/core/stats"
)

const reportSeparator = "++++++++++++++++++++++++++++++++++"

// LogSnapshot writes one report block for a single aggregate to log: a
// separator line, the given header lines, then count, min, max and average.
func LogSnapshot(log *slog.Logger, snap stats.Snapshot, headers ...string) {
	log.Info(reportSeparator)
	for _, h := range headers {
		log.Info(h)
	}
	log.Info(fmt.Sprintf("Count: %d", snap.Count))
	log.Info(fmt.Sprintf("Min: %s", snap.Min))
	log.Info(fmt.Sprintf("Max: %s", snap.Max))
	log.Info(fmt.Sprintf("Avg: %s", snap.Avg()))
}

// LogStats emits a report block for every registered method.
func (ic *Interceptor) LogStats() {
	for _, e := range ic.entries {
		LogSnapshot(ic.log, e.stats.Snapshot(), "++++ Stats for "+e.sig+" ++++")
	}
}

// LogStatsFor emits the report block for the first method whose name equals
// method exactly.
func (ic *Interceptor) LogStatsFor(method string) {
	ic.LogStatsMatching(method, false, true)
}

// LogStatsMatching filters methods like [Interceptor.StatsForMethod] and
// emits one report block per match.
func (ic *Interceptor) LogStatsMatching(method string, substring, stopOnFirst bool) {
	for _, ms := range ic.StatsForMethod(method, substring, stopOnFirst) {
		LogSnapshot(ic.log, ms.Stats, "++++ Stats for "+ms.Signature+" ++++")
	}
}
