package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// find returns the metric named name whose labels include want.
func find(reg *prometheus.Registry, name string, want map[string]string) *dto.Metric {
	families, err := reg.Gather()
	if err != nil {
		return nil
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, m := range f.GetMetric() {
			for k, v := range want {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
						break
					}
				}
				if !found {
					continue next
				}
			}
			return m
		}
	}
	return nil
}

func counterValue(name string, labels map[string]string) float64 {
	m := find(GetRegistry(), name, labels)
	if m == nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a custom registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithPrometheusRegistry(registry),
			)
			m.clockTicks.Inc()

			Convey("Then collectors are registered under the namespace", func() {
				metric := find(registry, "test_match_clock_ticks_total", nil)
				So(metric, ShouldNotBeNil)
				So(metric.GetCounter().GetValue(), ShouldEqual, 1)
			})
		})

		Convey("When registering the same manager twice", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When goals and incidents are recorded", func() {
			before := counterValue("touchline_match_goals_recorded_total", map[string]string{"side": "home"})
			RecordGoal("home")
			RecordGoal("home")
			RecordIncident("Foul")

			Convey("Then the labelled counters advance", func() {
				So(counterValue("touchline_match_goals_recorded_total", map[string]string{"side": "home"}), ShouldEqual, before+2)
				So(counterValue("touchline_match_incidents_recorded_total", map[string]string{"kind": "Foul"}), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When a store operation fails", func() {
			before := counterValue("touchline_match_persistence_failures_total", map[string]string{"op": "save_all"})
			writes := counterValue("touchline_match_persistence_writes_total", map[string]string{"op": "save_all"})
			RecordPersistence("save_all", 3*time.Millisecond, errors.New("disk full"))

			Convey("Then it counts as a failure and not as a write", func() {
				So(counterValue("touchline_match_persistence_failures_total", map[string]string{"op": "save_all"}), ShouldEqual, before+1)
				So(counterValue("touchline_match_persistence_writes_total", map[string]string{"op": "save_all"}), ShouldEqual, writes)
			})
		})

		Convey("When a tick is recorded", func() {
			RecordClockTick(125)

			Convey("Then the elapsed gauge follows it", func() {
				m := find(GetRegistry(), "touchline_match_elapsed_seconds", nil)
				So(m, ShouldNotBeNil)
				So(m.GetGauge().GetValue(), ShouldEqual, 125)
			})
		})

		Convey("When the remaining recorders are called", func() {
			So(func() {
				RecordDeletion("goal")
				RecordTimeEdit("incident")
				RecordDuplicate()
				RecordClockTransition("running")
				UpdateElapsedSeconds(10)
				RecordNotificationDispatched("log")
				RecordNotificationDropped()
				UpdateQueueSize(3)
				UpdateQueueCapacity(64)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				UpdateWorkerActiveCount(2)
				RecordWorkerError()
				RecordWorkerLatency(1.5)
				UpdateWebsocketClients(4)
				RecordHTTPRequest("/goals", "POST", "201")
				RecordHTTPRequestDuration("/goals", "POST", "201", 2.5)
			}, ShouldNotPanic)
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given many goroutines recording", t, func() {
		before := counterValue("touchline_match_clock_transitions_total", map[string]string{"phase": "paused"})
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				RecordClockTransition("paused")
			}()
		}
		wg.Wait()

		So(counterValue("touchline_match_clock_transitions_total", map[string]string{"phase": "paused"}), ShouldEqual, before+20)
	})
}
