package events_test

import (
	"testing"

	"github.com/ardanlabs/notechain/foundation/events"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan out events to receivers.")
	{
		t.Logf("\tTest 0:\tWhen two receivers and a publisher are registered.")
		{
			var published []string
			evts := events.New(func(s string) { published = append(published, s) })

			ch1 := evts.Acquire("one")
			ch2 := evts.Acquire("two")
			if evts.Acquire("one") != ch1 {
				t.Fatalf("\t%s\tShould get the same channel for the same id.", failed)
			}
			t.Logf("\t%s\tShould get the same channel for the same id.", success)

			evts.Send("viewer: block[1] sealed")

			for i, ch := range []chan string{ch1, ch2} {
				if msg := <-ch; msg != "viewer: block[1] sealed" {
					t.Fatalf("\t%s\tShould receive the event on channel %d: %q", failed, i, msg)
				}
			}
			t.Logf("\t%s\tShould receive the event on every channel.", success)

			if len(published) != 1 {
				t.Fatalf("\t%s\tShould publish the event once: %d", failed, len(published))
			}
			t.Logf("\t%s\tShould publish the event once.", success)

			if err := evts.Release("one"); err != nil {
				t.Fatalf("\t%s\tShould be able to release a receiver: %v", failed, err)
			}
			if err := evts.Release("one"); err == nil {
				t.Fatalf("\t%s\tShould not be able to release a receiver twice.", failed)
			}
			t.Logf("\t%s\tShould be able to release a receiver once.", success)

			evts.Shutdown()
			if _, open := <-ch2; open {
				t.Fatalf("\t%s\tShould close remaining channels on shutdown.", failed)
			}
			if evts.Count() != 0 {
				t.Fatalf("\t%s\tShould have no receivers after shutdown: %d", failed, evts.Count())
			}
			t.Logf("\t%s\tShould close remaining channels on shutdown.", success)
		}
	}
}
