package stats

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/config"
)

// Client counts events and commands and submits them to InfluxDB every minute.
// All methods are safe to call on a nil *Client, which makes metrics optional.
type Client struct {
	client influxdb2.Client
	write  api.WriteAPI

	mu       sync.Mutex
	events   map[string]uint32
	commands map[string]uint32
	cogs     map[string]uint32
}

// New creates a new client, or returns nil if no InfluxDB URL is configured.
func New(conf config.InfluxConfig) *Client {
	if conf.URL == "" {
		return nil
	}

	c := &Client{
		events:   make(map[string]uint32),
		commands: make(map[string]uint32),
		cogs:     make(map[string]uint32),
	}

	c.client = influxdb2.NewClientWithOptions(conf.URL, conf.Token,
		influxdb2.DefaultOptions().SetBatchSize(20))
	c.write = c.client.WriteAPI(conf.Organization, conf.Bucket)

	go func() {
		for err := range c.write.Errors() {
			log.Errorf("writing metrics: %v", err)
		}
	}()

	return c
}

// EventHandler counts arikawa events by type name.
func (c *Client) EventHandler(ev any) {
	if c == nil {
		return
	}

	c.RegisterEvent(reflect.ValueOf(ev).Elem().Type().Name())
}

// RegisterEvent increments the count for an event name.
func (c *Client) RegisterEvent(name string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.events[name]++
	c.mu.Unlock()
}

// IncCommand increments the usage count for a command.
func (c *Client) IncCommand(name string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.commands[name]++
	c.mu.Unlock()
}

// IncLifecycle increments the count for a cog lifecycle operation, such as "load" or "reload".
func (c *Client) IncLifecycle(op string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.cogs[op]++
	c.mu.Unlock()
}

// Run submits metrics every minute until ctx is cancelled, then flushes and closes the client.
func (c *Client) Run(ctx context.Context) {
	if c == nil {
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.submit()
		case <-ctx.Done():
			c.write.Flush()
			c.client.Close()
			return
		}
	}
}

// drain returns the current counts as point fields and resets them.
func drain(m map[string]uint32) (fields map[string]any, total uint32) {
	fields = make(map[string]any, len(m))
	for k, v := range m {
		total += v
		fields[k] = v
		m[k] = 0
	}
	return fields, total
}

func (c *Client) submit() {
	log.Debug("Submitting metrics to InfluxDB")

	c.mu.Lock()
	events, totalEvents := drain(c.events)
	commands, totalCommands := drain(c.commands)
	cogs, _ := drain(c.cogs)
	c.mu.Unlock()

	now := time.Now()

	if len(events) > 0 {
		c.write.WritePoint(influxdb2.NewPoint("events", nil, events, now))
	}
	if len(commands) > 0 {
		c.write.WritePoint(influxdb2.NewPoint("commands", nil, commands, now))
	}
	if len(cogs) > 0 {
		c.write.WritePoint(influxdb2.NewPoint("cogs", nil, cogs, now))
	}

	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	data := map[string]any{
		"events":      totalEvents,
		"commands":    totalCommands,
		"alloc":       stats.Alloc,
		"sys":         stats.Sys,
		"total_alloc": stats.TotalAlloc,
		"goroutines":  runtime.NumGoroutine(),
	}

	sysMem, err := mem.VirtualMemory()
	if err != nil {
		log.Errorf("getting system memory: %v", err)
	} else {
		data["total_sys"] = sysMem.Used
		data["total_sys_percent"] = sysMem.UsedPercent
	}

	cpuData, err := cpu.Percent(0, true)
	if err != nil {
		log.Errorf("getting cpu info: %v", err)
	} else {
		for i, d := range cpuData {
			data[fmt.Sprintf("cpu_%d", i)] = d
		}
	}

	c.write.WritePoint(influxdb2.NewPoint("statistics", nil, data, now))
}
