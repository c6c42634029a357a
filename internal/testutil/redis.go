// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// FakeRedis answers the commands the session store and the tap queue issue
// (GET, SET, DEL, LPUSH, BRPOP, PING) from memory. It never dials.
type FakeRedis struct {
	mu      sync.Mutex
	strs    map[string]string
	lists   map[string][]string
	failErr error
}

// NewRedis returns a client wired to a fresh FakeRedis. The client is closed
// when the test ends.
func NewRedis(t *testing.T) (*redis.Client, *FakeRedis) {
	t.Helper()
	f := &FakeRedis{strs: map[string]string{}, lists: map[string][]string{}}
	client := redis.NewClient(&redis.Options{Addr: "fake:6379"})
	client.AddHook(f)
	t.Cleanup(func() { _ = client.Close() })
	return client, f
}

// FailWith makes every later command fail with err. Nil restores normal
// behaviour.
func (f *FakeRedis) FailWith(err error) {
	f.mu.Lock()
	f.failErr = err
	f.mu.Unlock()
}

// List returns a copy of the list at key, head first.
func (f *FakeRedis) List(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lists[key]...)
}

// Has reports whether a string value is stored at key.
func (f *FakeRedis) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.strs[key]
	return ok
}

func (f *FakeRedis) DialHook(redis.DialHook) redis.DialHook {
	return func(context.Context, string, string) (net.Conn, error) {
		return nil, errors.New("fake redis: no network")
	}
}

func (f *FakeRedis) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := f.process(ctx, cmd)
		if err != nil {
			cmd.SetErr(err)
		}
		return err
	}
}

func (f *FakeRedis) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		var first error
		for _, cmd := range cmds {
			if err := f.process(ctx, cmd); err != nil {
				cmd.SetErr(err)
				if first == nil {
					first = err
				}
			}
		}
		return first
	}
}

func (f *FakeRedis) process(ctx context.Context, cmd redis.Cmder) error {
	args := cmd.Args()
	name := strings.ToLower(arg(args[0]))

	f.mu.Lock()
	if f.failErr != nil {
		err := f.failErr
		f.mu.Unlock()
		return err
	}
	if name == "brpop" {
		f.mu.Unlock()
		return f.brpop(ctx, cmd, args)
	}
	defer f.mu.Unlock()

	switch name {
	case "ping":
		return setStatus(cmd, "PONG")
	case "get":
		v, ok := f.strs[arg(args[1])]
		if !ok {
			return redis.Nil
		}
		c, ok := cmd.(*redis.StringCmd)
		if !ok {
			return fmt.Errorf("fake redis: get: unexpected %T", cmd)
		}
		c.SetVal(v)
		return nil
	case "set":
		f.strs[arg(args[1])] = arg(args[2])
		return setStatus(cmd, "OK")
	case "del":
		var n int64
		for _, a := range args[1:] {
			k := arg(a)
			if _, ok := f.strs[k]; ok {
				delete(f.strs, k)
				n++
			}
			if _, ok := f.lists[k]; ok {
				delete(f.lists, k)
				n++
			}
		}
		return setInt(cmd, n)
	case "lpush":
		k := arg(args[1])
		for _, a := range args[2:] {
			f.lists[k] = append([]string{arg(a)}, f.lists[k]...)
		}
		return setInt(cmd, int64(len(f.lists[k])))
	}
	return fmt.Errorf("fake redis: unsupported command %q", name)
}

// brpop pops from the first non-empty key. An empty poll waits briefly and
// answers redis.Nil, like a server-side timeout.
func (f *FakeRedis) brpop(ctx context.Context, cmd redis.Cmder, args []interface{}) error {
	c, ok := cmd.(*redis.StringSliceCmd)
	if !ok {
		return fmt.Errorf("fake redis: brpop: unexpected %T", cmd)
	}
	f.mu.Lock()
	for _, a := range args[1 : len(args)-1] {
		k := arg(a)
		if l := f.lists[k]; len(l) > 0 {
			v := l[len(l)-1]
			f.lists[k] = l[:len(l)-1]
			f.mu.Unlock()
			c.SetVal([]string{k, v})
			return nil
		}
	}
	f.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return redis.Nil
	}
}

func setStatus(cmd redis.Cmder, v string) error {
	c, ok := cmd.(*redis.StatusCmd)
	if !ok {
		return fmt.Errorf("fake redis: unexpected %T", cmd)
	}
	c.SetVal(v)
	return nil
}

func setInt(cmd redis.Cmder, n int64) error {
	c, ok := cmd.(*redis.IntCmd)
	if !ok {
		return fmt.Errorf("fake redis: unexpected %T", cmd)
	}
	c.SetVal(n)
	return nil
}

func arg(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
