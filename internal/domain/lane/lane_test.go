package lane_test

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	lane "github.com/okian/laurel/internal/domain/lane"
)

func TestLanes(t *testing.T) {
	Convey("Given a new lane set", t, func() {
		Convey("When creating lanes with default options", func() {
			l := lane.New()

			Convey("Then it should use the default shard count", func() {
				So(l, ShouldNotBeNil)
				So(l.ShardCount(), ShouldEqual, 64)
			})
		})

		Convey("When creating lanes with a custom shard count", func() {
			l := lane.New(lane.WithShardCount(8))

			Convey("Then it should use the custom shard count", func() {
				So(l.ShardCount(), ShouldEqual, 8)
			})
		})

		Convey("When creating lanes with an invalid shard count", func() {
			l := lane.New(lane.WithShardCount(0))

			Convey("Then it should fall back to the default", func() {
				So(l.ShardCount(), ShouldEqual, 64)
			})
		})

		Convey("When acquiring and releasing a lane", func() {
			l := lane.New()

			release := l.Acquire(42)
			release()

			Convey("Then the lane can be acquired again", func() {
				release := l.Acquire(42)
				release()
				So(true, ShouldBeTrue)
			})
		})

		Convey("When two goroutines contend for the same key", func() {
			l := lane.New()
			var order []int
			var mu sync.Mutex

			release := l.Acquire(7)

			done := make(chan struct{})
			go func() {
				r := l.Acquire(7)
				mu.Lock()
				order = append(order, 2)
				mu.Unlock()
				r()
				close(done)
			}()

			time.Sleep(20 * time.Millisecond)
			mu.Lock()
			order = append(order, 1)
			mu.Unlock()
			release()
			<-done

			Convey("Then the holder finishes before the waiter enters", func() {
				So(order, ShouldResemble, []int{1, 2})
			})
		})

		Convey("When different keys map to different shards", func() {
			l := lane.New(lane.WithShardCount(4))

			releaseA := l.Acquire(1)

			acquired := make(chan struct{})
			go func() {
				releaseB := l.Acquire(2)
				releaseB()
				close(acquired)
			}()

			Convey("Then the second key is not blocked", func() {
				select {
				case <-acquired:
					So(true, ShouldBeTrue)
				case <-time.After(500 * time.Millisecond):
					So("second key blocked", ShouldBeEmpty)
				}
				releaseA()
			})
		})

		Convey("When many goroutines increment a counter under one key", func() {
			l := lane.New()
			counter := 0
			var wg sync.WaitGroup

			for i := 0; i < 100; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					release := l.Acquire(9)
					counter++
					release()
				}()
			}
			wg.Wait()

			Convey("Then no increments are lost", func() {
				So(counter, ShouldEqual, 100)
			})
		})
	})
}
