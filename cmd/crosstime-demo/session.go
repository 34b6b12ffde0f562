package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
	"github.com/crosstime-io/crosstime-go/pkg/sched"
	"github.com/crosstime-io/crosstime-go/pkg/timer"
)

// Session runs the interactive command loop. Each armed construct gets
// a numeric ID and a watcher goroutine that prints its ready signals
// through the readline-coordinated writer.
type Session struct {
	scheduler sched.Scheduler
	cfg       *Config
	rl        *readline.Instance
	start     instant.Instant

	mu     sync.Mutex
	nextID int
	live   map[int]*construct
	quit   chan struct{}
}

// construct is one live delay, interval, or timeout race.
type construct struct {
	kind string
	desc string
	stop func()
}

// NewSession creates the interactive session.
func NewSession(scheduler sched.Scheduler, cfg *Config) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Session{
		scheduler: scheduler,
		cfg:       cfg,
		rl:        rl,
		start:     scheduler.Now(),
		live:      make(map[int]*construct),
		quit:      make(chan struct{}),
	}, nil
}

// Run processes commands until quit or EOF.
func (s *Session) Run() {
	defer s.rl.Close()
	defer close(s.quit)

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "delay", "d":
			s.cmdDelay(args)

		case "every", "e":
			s.cmdEvery(args)

		case "timeout", "t":
			s.cmdTimeout(args)

		case "list", "l":
			s.cmdList()

		case "cancel", "c":
			s.cmdCancel(args)

		case "quit", "exit", "q":
			fmt.Fprintln(s.out(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.out(), "Unknown command %q; try help\n", cmd)
		}
	}
}

// out returns a writer that coordinates with the readline prompt, so
// firing timers don't mangle the input line.
func (s *Session) out() io.Writer {
	return s.rl.Stdout()
}

func (s *Session) printHelp() {
	fmt.Fprint(s.out(), `Commands:
  delay <duration>    arm a one-shot delay        (d 500ms)
  every <duration>    arm a repeating interval    (e 1s)
  timeout <duration>  race a stuck operation      (t 2s)
  list                show live constructs        (l)
  cancel <id>         stop a live construct       (c 3)
  quit                exit
`)
}

func (s *Session) elapsed() time.Duration {
	return s.scheduler.Now().Sub(s.start)
}

func (s *Session) parseDuration(args []string, fallback time.Duration) (time.Duration, bool) {
	if len(args) == 0 {
		if fallback > 0 {
			return fallback, true
		}
		fmt.Fprintln(s.out(), "A duration is required, e.g. 500ms")
		return 0, false
	}
	d, err := time.ParseDuration(args[0])
	if err != nil {
		fmt.Fprintf(s.out(), "Bad duration %q: %v\n", args[0], err)
		return 0, false
	}
	return d, true
}

func (s *Session) register(kind, desc string, stop func()) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.live[id] = &construct{kind: kind, desc: desc, stop: stop}
	return id
}

func (s *Session) unregister(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)
}

func (s *Session) cmdDelay(args []string) {
	d, ok := s.parseDuration(args, 0)
	if !ok {
		return
	}

	del, err := timer.NewDelayOn(s.scheduler, d)
	if err != nil {
		fmt.Fprintf(s.out(), "Arming delay failed: %v\n", err)
		return
	}

	id := s.register("delay", d.String(), del.Stop)
	fmt.Fprintf(s.out(), "[%d] delay %s armed\n", id, d)

	go func() {
		select {
		case fired := <-del.C:
			fmt.Fprintf(s.out(), "[%d] delay fired at t+%s\n", id, fired.Sub(s.start))
			s.unregister(id)
		case <-s.quit:
			del.Stop()
		}
	}()
}

func (s *Session) cmdEvery(args []string) {
	d, ok := s.parseDuration(args, 0)
	if !ok {
		return
	}

	iv, err := timer.NewIntervalOn(s.scheduler, d)
	if err != nil {
		fmt.Fprintf(s.out(), "Arming interval failed: %v\n", err)
		return
	}

	id := s.register("every", d.String(), iv.Stop)
	fmt.Fprintf(s.out(), "[%d] interval %s armed\n", id, d)

	go func() {
		for {
			select {
			case ts := <-iv.C:
				fmt.Fprintf(s.out(), "[%d] tick at t+%s\n", id, ts.Sub(s.start))
			case <-s.quit:
				iv.Stop()
				return
			}
		}
	}()
}

func (s *Session) cmdTimeout(args []string) {
	d, ok := s.parseDuration(args, s.cfg.DefaultTimeout)
	if !ok {
		return
	}

	// The racing operation never completes, so the timeout always wins;
	// cancel delivers the operation's result first instead.
	op := make(chan string, 1)
	id := s.register("timeout", d.String(), func() {
		select {
		case op <- "cancelled by hand":
		default:
		}
	})
	fmt.Fprintf(s.out(), "[%d] racing a stuck operation against %s\n", id, d)

	go func() {
		v, err := timer.WaitOn(s.scheduler, op, d)
		switch {
		case err == timer.ErrTimeout:
			fmt.Fprintf(s.out(), "[%d] timed out at t+%s\n", id, s.elapsed())
		case err != nil:
			fmt.Fprintf(s.out(), "[%d] race failed: %v\n", id, err)
		default:
			fmt.Fprintf(s.out(), "[%d] operation won: %s\n", id, v)
		}
		s.unregister(id)
	}()
}

func (s *Session) cmdList() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.live) == 0 {
		fmt.Fprintln(s.out(), "Nothing live")
		return
	}

	ids := make([]int, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		c := s.live[id]
		fmt.Fprintf(s.out(), "[%d] %s %s\n", id, c.kind, c.desc)
	}
}

func (s *Session) cmdCancel(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out(), "An ID is required, e.g. cancel 3")
		return
	}

	var id int
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
		fmt.Fprintf(s.out(), "Bad ID %q\n", args[0])
		return
	}

	s.mu.Lock()
	c, ok := s.live[id]
	if ok {
		delete(s.live, id)
	}
	s.mu.Unlock()
	if !ok {
		fmt.Fprintf(s.out(), "No live construct [%d]\n", id)
		return
	}
	c.stop()
	fmt.Fprintf(s.out(), "[%d] %s cancelled\n", id, c.kind)
}
