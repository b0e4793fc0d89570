package commands

import (
	"fmt"
	"time"

	"github.com/simkernel-go/simkernel/kernel"
)

// entryPoints is the table of actor bodies a scenario file's
// `[[actors]] entry = "..."` can name. A real deployment links its own
// domain actors in; this binary ships the handful of demo bodies used
// by the end-to-end scenarios in the test suite (§8).
var entryPoints = map[string]kernel.ActorCode{
	"producer": producerEntry,
	"consumer": consumerEntry,
	"pinger":   pingerEntry,
}

func lookupEntry(name string) (kernel.ActorCode, error) {
	code, ok := entryPoints[name]
	if !ok {
		return nil, fmt.Errorf("simkernel-mc: unknown actor entry %q", name)
	}
	return code, nil
}

// producerEntry sends ten messages to "mbox" and exits.
func producerEntry(self *kernel.Actor) {
	for i := 0; i < 10; i++ {
		if err := self.Send("mbox", i); err != nil {
			return
		}
	}
}

// consumerEntry drains "mbox" until the producer stops sending,
// daemonizing itself so it never blocks scenario shutdown on its own.
func consumerEntry(self *kernel.Actor) {
	self.Daemonize()
	for {
		if _, err := self.Recv("mbox"); err != nil {
			return
		}
	}
}

// pingerEntry alternates Exec bursts with sleeps, giving the liveness
// checker a small nontrivial interleave set to explore.
func pingerEntry(self *kernel.Actor) {
	for i := 0; i < 3; i++ {
		if err := self.Exec(1e6); err != nil {
			return
		}
		if err := self.Sleep(time.Second); err != nil {
			return
		}
	}
}
