package lease

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dProps/cmd/util"
	lib "github.com/ValentinKolb/dProps/lib/lease"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
)

var (
	benchWorkers  int
	benchDuration time.Duration
	benchHold     time.Duration
	benchKey      string

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Let several workers contend for one lease",
		Long: `Starts a number of workers that acquire, hold and release the same lease
for a fixed time. Reports acquisition latency, how often workers won or lost
and how often two workers held the lease at the same time (overlaps).`,
		Args: cobra.NoArgs,
		RunE: runBench,
	}
)

func init() {
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 10, util.WrapString("Number of concurrent workers"))
	benchCmd.Flags().DurationVar(&benchDuration, "duration", 5*time.Second, util.WrapString("How long the benchmark runs"))
	benchCmd.Flags().DurationVar(&benchHold, "hold", 10*time.Millisecond, util.WrapString("How long a worker holds the lease once acquired"))
	benchCmd.Flags().StringVar(&benchKey, "key", "__bench", util.WrapString("Key the workers contend for"))
}

// benchResult collects the measurements of all workers
type benchResult struct {
	acquire  gometrics.Timer
	won      gometrics.Counter
	lost     gometrics.Counter
	overlaps gometrics.Counter
	holders  atomic.Int32
}

func newBenchResult() *benchResult {
	return &benchResult{
		acquire:  gometrics.NewTimer(),
		won:      gometrics.NewCounter(),
		lost:     gometrics.NewCounter(),
		overlaps: gometrics.NewCounter(),
	}
}

// worker acquires and releases leases on key until stop is closed
func (r *benchResult) worker(leases lib.ILeaseManager, key string, ttl, hold time.Duration, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		start := time.Now()
		owner, ok := leases.Acquire(key, ttl)
		r.acquire.UpdateSince(start)
		if !ok {
			r.lost.Inc(1)
			continue
		}

		r.won.Inc(1)
		if r.holders.Add(1) > 1 {
			r.overlaps.Inc(1)
		}
		time.Sleep(hold)
		r.holders.Add(-1)
		leases.Release(key, owner)
	}
}

func (r *benchResult) print() {
	ps := r.acquire.Percentiles([]float64{0.5, 0.9, 0.99})
	fmt.Printf("%-20s%d\n", "acquire calls", r.acquire.Count())
	fmt.Printf("%-20s%d\n", "won", r.won.Count())
	fmt.Printf("%-20s%d\n", "lost", r.lost.Count())
	fmt.Printf("%-20s%d\n", "overlaps", r.overlaps.Count())
	fmt.Printf("%-20s%.0f/sec\n", "acquire rate", r.acquire.RateMean())
	fmt.Printf("%-20sp50=%s p90=%s p99=%s max=%s\n", "acquire latency",
		time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]), time.Duration(r.acquire.Max()))
}

func runBench(_ *cobra.Command, _ []string) error {
	fmt.Println("Lease contention benchmark")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Workers: %d, Duration: %s, Hold: %s, TTL: %s\n\n", benchWorkers, benchDuration, benchHold, leaseTTL)

	// start from a free lease
	rpcLeases.Release(benchKey, "")

	r := newBenchResult()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < benchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(rpcLeases, benchKey, leaseTTL, benchHold, stop)
		}()
	}

	time.Sleep(benchDuration)
	close(stop)
	wg.Wait()

	r.print()
	return nil
}
