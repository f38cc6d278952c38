package graph_test

import (
	"errors"
	"testing"
	"time"

	"github.com/delaneyj/mappergraph/graph"
	"github.com/delaneyj/mappergraph/object"
	"github.com/delaneyj/mappergraph/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type subscribeCall struct {
	scope uint64
	kinds object.Kind
	lease time.Duration
}

type fakeTransport struct {
	sink         graph.Sink
	binds        []string
	published    []graph.Message
	subscribes   []subscribeCall
	unsubscribes []uint64
	closed       bool
}

func (f *fakeTransport) Bind(iface, group string, port int) error {
	f.binds = append(f.binds, group)
	return nil
}
func (f *fakeTransport) Attach(sink graph.Sink) { f.sink = sink }
func (f *fakeTransport) Publish(msg graph.Message) error {
	f.published = append(f.published, msg)
	return nil
}
func (f *fakeTransport) Subscribe(scope uint64, kinds object.Kind, lease time.Duration) error {
	f.subscribes = append(f.subscribes, subscribeCall{scope, kinds, lease})
	return nil
}
func (f *fakeTransport) Unsubscribe(scope uint64) error {
	f.unsubscribes = append(f.unsubscribes, scope)
	return nil
}
func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

type event struct {
	id   uint64
	kind object.Kind
	evt  graph.Event
}

func recorder(events *[]event) graph.Handler {
	return func(g *graph.Graph, rec *object.Record, evt graph.Event) error {
		*events = append(*events, event{rec.ID(), rec.Kind(), evt})
		return nil
	}
}

func device(id uint64, name string, props ...graph.PropUpdate) graph.Message {
	return graph.Message{
		Kind:  object.KindDevice,
		ID:    id,
		Props: append([]graph.PropUpdate{graph.Prop("name", value.String(name))}, props...),
	}
}

func signal(id, dev uint64, name string, props ...graph.PropUpdate) graph.Message {
	return graph.Message{
		Kind:  object.KindSignal,
		ID:    id,
		Scope: []uint64{dev},
		Props: append([]graph.PropUpdate{graph.Prop("name", value.String(name))}, props...),
	}
}

func mapping(id uint64, sigs ...uint64) graph.Message {
	return graph.Message{Kind: object.KindMap, ID: id, Scope: sigs}
}

func remove(kind object.Kind, id uint64) graph.Message {
	return graph.Message{Kind: kind, ID: id, Action: graph.ActionRemove}
}

func newGraph(t *testing.T, sub object.Kind, opts ...graph.Option) (*graph.Graph, *clock) {
	t.Helper()
	c := newClock()
	g, err := graph.New(sub, append([]graph.Option{graph.WithClock(c.now)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g, c
}

func poll(t *testing.T, g *graph.Graph) int {
	t.Helper()
	n, err := g.Poll(0)
	require.NoError(t, err)
	return n
}

func TestPollEmptyThenDevice(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	assert.Equal(t, 0, poll(t, g))
	assert.Equal(t, 0, g.Devices().Count())

	var events []event
	g.AddHandler(recorder(&events), object.KindAll)
	g.Deliver(device(0x100, "synth"))
	assert.Equal(t, 1, poll(t, g))
	assert.Equal(t, []event{{0x100, object.KindDevice, graph.EventNew}}, events)
	assert.Equal(t, 1, g.Devices().Count())

	dev := g.Record(0x100)
	require.NotNil(t, dev)
	assert.Equal(t, "synth", dev.Name())
	assert.False(t, dev.Local())
	assert.Equal(t, object.StatusUndefined, dev.Status())
}

func TestPollNonBlocking(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	start := time.Now()
	n, err := g.Poll(0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestPollBlocksForFirstMessage(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	go func() {
		time.Sleep(10 * time.Millisecond)
		g.Deliver(device(1, "late"))
	}()
	n, err := g.Poll(2000)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	start := time.Now()
	n, err = g.Poll(20)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestModifiedEvents(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	var events []event
	g.AddHandler(recorder(&events), object.KindAll)

	g.Deliver(device(1, "synth"))
	g.Deliver(device(1, "synth", graph.Prop("host", value.String("10.0.0.2"))))
	assert.Equal(t, 2, poll(t, g))
	assert.Equal(t, []event{{1, object.KindDevice, graph.EventNew}}, events)

	events = nil
	g.Deliver(device(1, "synth", graph.Prop("host", value.String("10.0.0.3"))))
	assert.Equal(t, 1, poll(t, g))
	assert.Equal(t, []event{{1, object.KindDevice, graph.EventModified}}, events)

	events = nil
	g.Deliver(device(1, "synth"))
	assert.Equal(t, 1, poll(t, g))
	assert.Empty(t, events)

	host, ok := g.Record(1).GetProp(object.PropHost)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.3", host.AsString())
}

func TestHandlerKindFilter(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	var devEvents, allEvents []event
	g.AddHandler(recorder(&devEvents), object.KindDevice)
	g.AddHandler(recorder(&allEvents), object.KindAll)

	g.Deliver(device(1, "synth"))
	g.Deliver(signal(2, 1, "freq"))
	g.Deliver(signal(3, 1, "gain"))
	g.Deliver(mapping(4, 2, 3))
	assert.Equal(t, 4, poll(t, g))

	g.Deliver(signal(2, 1, "freq", graph.Prop("unit", value.String("Hz"))))
	g.Deliver(graph.Message{Kind: object.KindMap, ID: 4, Scope: []uint64{2, 3}, Props: []graph.PropUpdate{graph.Prop("muted", value.Bool(true))}})
	assert.Equal(t, 2, poll(t, g))

	for _, e := range devEvents {
		assert.Equal(t, object.KindDevice, e.kind)
	}
	assert.Len(t, devEvents, 1)
	assert.Len(t, allEvents, 6)
}

func TestHandlerFailuresAreIsolated(t *testing.T) {
	var reported []error
	g, _ := newGraph(t, object.KindAll, graph.WithOnError(func(rec *object.Record, err error) {
		reported = append(reported, err)
	}))
	boom := errors.New("boom")
	g.AddHandler(func(*graph.Graph, *object.Record, graph.Event) error { return boom }, object.KindAll)
	g.AddHandler(func(*graph.Graph, *object.Record, graph.Event) error { panic("bad handler") }, object.KindAll)
	var events []event
	g.AddHandler(recorder(&events), object.KindAll)

	g.Deliver(device(1, "a"))
	g.Deliver(device(2, "b"))
	assert.Equal(t, 2, poll(t, g))

	assert.Len(t, events, 2)
	require.Len(t, reported, 4)
	assert.ErrorIs(t, reported[0], boom)
	assert.Contains(t, reported[1].Error(), "bad handler")
}

func TestRemoveHandler(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	var events []event
	id := g.AddHandler(recorder(&events), object.KindAll)
	assert.True(t, g.RemoveHandler(id))
	assert.False(t, g.RemoveHandler(id))

	g.Deliver(device(1, "a"))
	assert.Equal(t, 1, poll(t, g))
	assert.Empty(t, events)
}

func TestHandlerRemovedDuringDispatch(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	var first, second []event
	var secondID graph.HandlerID
	g.AddHandler(func(g *graph.Graph, rec *object.Record, evt graph.Event) error {
		first = append(first, event{rec.ID(), rec.Kind(), evt})
		g.RemoveHandler(secondID)
		return nil
	}, object.KindAll)
	secondID = g.AddHandler(recorder(&second), object.KindAll)

	g.Deliver(device(1, "a"))
	g.Deliver(device(2, "b"))
	assert.Equal(t, 2, poll(t, g))
	assert.Len(t, first, 2)
	assert.Empty(t, second)
}

func TestPollRejectsReentry(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	var inner error
	g.AddHandler(func(g *graph.Graph, rec *object.Record, evt graph.Event) error {
		_, inner = g.Poll(0)
		return nil
	}, object.KindDevice)
	g.Deliver(device(1, "a"))
	assert.Equal(t, 1, poll(t, g))
	assert.ErrorIs(t, inner, graph.ErrReentrantPoll)
}

func TestMalformedPropertyIsSkipped(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	bad := graph.PropUpdate{Key: "broken", Raw: value.Raw{Type: value.TypeInt32, Len: 3, I32: []int32{1}}}
	g.Deliver(device(1, "synth", bad, graph.Prop("port", value.Int32(9000))))
	assert.Equal(t, 1, poll(t, g))

	dev := g.Record(1)
	require.NotNil(t, dev)
	_, ok := dev.GetName("broken")
	assert.False(t, ok)
	port, ok := dev.GetProp(object.PropPort)
	require.True(t, ok)
	n, _ := port.Int32()
	assert.Equal(t, int32(9000), n)
}

func TestBooleanArrivesAsBoolean(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	raw := value.Raw{Type: value.TypeBool, Len: 3, I32: []int32{1, 0, 1}}
	g.Deliver(device(1, "synth", graph.PropUpdate{Key: "flags", Raw: raw}))
	poll(t, g)
	v, ok := g.Record(1).GetName("flags")
	require.True(t, ok)
	flags, ok := v.Bools()
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, true}, flags)
}

func TestRemoveCascades(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	g.Deliver(device(1, "a"))
	g.Deliver(device(2, "b"))
	g.Deliver(signal(10, 1, "out"))
	g.Deliver(signal(20, 2, "in"))
	g.Deliver(mapping(30, 10, 20))
	assert.Equal(t, 5, poll(t, g))
	sig := g.Record(10)
	require.NotNil(t, sig)
	assert.Equal(t, 1, g.MapsOf(g.Record(2)).Count())

	var events []event
	g.AddHandler(recorder(&events), object.KindAll)
	g.Deliver(remove(object.KindDevice, 1))
	assert.Equal(t, 1, poll(t, g))

	assert.ElementsMatch(t, []event{
		{1, object.KindDevice, graph.EventRemoved},
		{10, object.KindSignal, graph.EventRemoved},
		{30, object.KindMap, graph.EventRemoved},
	}, events)
	assert.True(t, sig.Stale())
	assert.Nil(t, g.Record(30))
	assert.Equal(t, 1, g.Devices().Count())
	assert.Equal(t, 1, g.Signals().Count())
	assert.Equal(t, 0, g.Maps().Count())

	g.Deliver(remove(object.KindDevice, 1))
	assert.Equal(t, 0, poll(t, g))
}

func TestExpiryAndFlush(t *testing.T) {
	g, c := newGraph(t, object.KindAll, graph.WithTimeout(5*time.Second))
	var events []event
	g.AddHandler(recorder(&events), object.KindAll)
	g.Deliver(device(1, "quiet"))
	g.Deliver(signal(2, 1, "out"))
	g.Deliver(device(3, "chatty"))
	poll(t, g)

	c.advance(4 * time.Second)
	g.Deliver(device(3, "chatty"))
	poll(t, g)
	c.advance(2 * time.Second)
	events = nil
	poll(t, g)
	assert.Equal(t, []event{{1, object.KindDevice, graph.EventExpired}}, events)
	assert.True(t, g.Record(1).Status().Has(object.StatusExpired))

	events = nil
	poll(t, g)
	assert.Empty(t, events)

	n, err := g.Flush(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.ElementsMatch(t, []event{
		{1, object.KindDevice, graph.EventRemoved},
		{2, object.KindSignal, graph.EventRemoved},
	}, events)
	assert.Equal(t, 1, g.Devices().Count())
}

func TestExpiredDeviceRevives(t *testing.T) {
	g, c := newGraph(t, object.KindAll, graph.WithTimeout(time.Second))
	g.Deliver(device(1, "a"))
	poll(t, g)
	c.advance(2 * time.Second)
	poll(t, g)
	require.True(t, g.Record(1).Status().Has(object.StatusExpired))

	var events []event
	g.AddHandler(recorder(&events), object.KindAll)
	g.Deliver(device(1, "a"))
	poll(t, g)
	assert.Equal(t, []event{{1, object.KindDevice, graph.EventModified}}, events)
	assert.False(t, g.Record(1).Status().Has(object.StatusExpired))
}

func TestSignalTrafficRevivesDevice(t *testing.T) {
	g, c := newGraph(t, object.KindAll, graph.WithTimeout(time.Second))
	g.Deliver(device(1, "a"))
	g.Deliver(signal(2, 1, "freq"))
	poll(t, g)
	c.advance(2 * time.Second)
	poll(t, g)
	dev := g.Record(1)
	require.True(t, dev.Status().Has(object.StatusExpired))

	var events []event
	g.AddHandler(recorder(&events), object.KindAll)
	g.Deliver(signal(2, 1, "freq", graph.Prop("unit", value.String("Hz"))))
	poll(t, g)
	assert.ElementsMatch(t, []event{
		{1, object.KindDevice, graph.EventModified},
		{2, object.KindSignal, graph.EventModified},
	}, events)
	assert.False(t, dev.Status().Has(object.StatusExpired))

	n, err := g.Flush(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Same(t, dev, g.Record(1))
}

func TestSignalBeforeDevice(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	g.Deliver(signal(2, 1, "freq"))
	assert.Equal(t, 1, poll(t, g))
	sig := g.Record(2)
	require.NotNil(t, sig)
	assert.Nil(t, sig.Parent())

	g.Deliver(device(1, "synth"))
	assert.Equal(t, 1, poll(t, g))
	dev := g.Record(1)
	require.NotNil(t, dev)
	assert.Same(t, dev, sig.Parent())
	assert.Equal(t, 1, g.SignalsOf(dev).Count())

	g.Deliver(remove(object.KindDevice, 1))
	poll(t, g)
	assert.True(t, sig.Stale())
	assert.Nil(t, g.Record(2))
}

func TestMapBeforeSignals(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	g.Deliver(device(1, "synth"))
	g.Deliver(mapping(30, 10, 20))
	assert.Equal(t, 2, poll(t, g))
	m := g.Record(30)
	require.NotNil(t, m)
	assert.Empty(t, g.Links(m))

	g.Deliver(signal(10, 1, "out"))
	g.Deliver(signal(20, 1, "in"))
	assert.Equal(t, 2, poll(t, g))
	out, in := g.Record(10), g.Record(20)
	assert.Equal(t, []*object.Record{out, in}, g.Links(m))
	assert.Equal(t, 1, g.MapsOf(out).Count())
	assert.Equal(t, 1, g.MapsOf(g.Record(1)).Count())

	g.Deliver(remove(object.KindSignal, 10))
	poll(t, g)
	assert.True(t, m.Stale())
	assert.Nil(t, g.Record(30))
	assert.Equal(t, 0, g.Maps().Count())
}

func TestLocalMapWaitsForRemoteDevice(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	const devID = 0xab00000001
	g.Deliver(signal(0xab00000002, devID, "in"))
	poll(t, g)
	dev, err := g.AddDevice("synth")
	require.NoError(t, err)
	out, err := g.AddSignal(dev, "out", object.DirOutgoing, value.TypeFloat32, 1)
	require.NoError(t, err)
	m, err := g.AddMap(g.Record(0xab00000002), out)
	require.NoError(t, err)
	poll(t, g)
	assert.True(t, m.Status().Has(object.StatusStaged))

	g.Deliver(device(devID, "remote"))
	poll(t, g)
	assert.False(t, m.Status().Has(object.StatusStaged))
	assert.Equal(t, uint64(0xab), m.ID()>>32)
}

func TestExpireMessage(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	var events []event
	g.AddHandler(recorder(&events), object.KindAll)
	g.Deliver(device(1, "a"))
	g.Deliver(graph.Message{Kind: object.KindDevice, ID: 1, Action: graph.ActionExpire})
	assert.Equal(t, 2, poll(t, g))
	assert.Equal(t, []event{{1, object.KindDevice, graph.EventExpired}}, events)
}

func TestLocalDeviceLifecycle(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newGraph(t, object.KindAll, graph.WithTransport(ft))
	var events []event
	g.AddHandler(recorder(&events), object.KindAll)

	dev, err := g.AddDevice("synth")
	require.NoError(t, err)
	assert.True(t, dev.Local())
	assert.True(t, dev.Owned())
	assert.Zero(t, dev.ID()>>32)
	assert.True(t, dev.Status().Has(object.StatusStaged))

	err = dev.Set(object.NameKey("rate"), value.Float32(48000), true)
	assert.ErrorIs(t, err, graph.ErrNotReady)
	assert.Empty(t, ft.published)

	sig, err := g.AddSignal(dev, "freq", object.DirOutgoing, value.TypeFloat32, 1)
	require.NoError(t, err)
	assert.Same(t, dev, sig.Parent())

	assert.Equal(t, 0, poll(t, g))
	assert.NotZero(t, dev.ID()>>32)
	assert.Equal(t, dev.ID()>>32, sig.ID()>>32)
	assert.True(t, dev.Status().Has(object.StatusActive))
	assert.False(t, dev.Status().Has(object.StatusStaged))
	assert.Same(t, dev, g.Record(dev.ID()))
	assert.Same(t, dev, g.DeviceByName("synth"))
	assert.Equal(t, []event{
		{dev.ID(), object.KindDevice, graph.EventNew},
		{sig.ID(), object.KindSignal, graph.EventNew},
	}, events)

	require.Len(t, ft.published, 2)
	announce := ft.published[0]
	assert.Equal(t, dev.ID(), announce.ID)
	keys := map[string]bool{}
	for _, p := range announce.Props {
		keys[p.Key] = true
	}
	assert.True(t, keys["name"])
	assert.True(t, keys["rate"])
	assert.True(t, keys["version"])
	assert.Equal(t, []uint64{dev.ID()}, ft.published[1].Scope)
	assert.Equal(t, int32(1), dev.Version())

	require.NoError(t, dev.Set(object.NameKey("rate"), value.Float32(44100), true))
	assert.Len(t, ft.published, 3)
}

func TestLocalMap(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newGraph(t, object.KindAll, graph.WithTransport(ft))
	dev, err := g.AddDevice("synth")
	require.NoError(t, err)
	out, err := g.AddSignal(dev, "out", object.DirOutgoing, value.TypeFloat32, 1)
	require.NoError(t, err)
	in, err := g.AddSignal(dev, "in", object.DirIncoming, value.TypeFloat32, 1)
	require.NoError(t, err)
	m, err := g.AddMap(in, out)
	require.NoError(t, err)
	poll(t, g)

	v, ok := m.GetProp(object.PropSignal)
	require.True(t, ok)
	assert.Equal(t, value.TypeList, v.Type())
	resolved := g.ResolveList(v).Slice()
	assert.Equal(t, []*object.Record{out, in}, resolved)
	assert.Equal(t, []*object.Record{out, in}, g.Links(m))
	assert.Equal(t, 1, g.MapsOf(dev).Count())
	assert.Equal(t, 2, g.SignalsOf(dev).Count())

	require.NoError(t, g.Remove(out))
	poll(t, g)
	assert.True(t, m.Stale())
	assert.Equal(t, 1, g.Signals().Count())
	last := ft.published[len(ft.published)-1]
	assert.Equal(t, graph.ActionRemove, last.Action)
	assert.Equal(t, out.ID(), last.ID)
}

func TestPublishSignalListOnce(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newGraph(t, object.KindAll, graph.WithTransport(ft))
	dev, err := g.AddDevice("synth")
	require.NoError(t, err)
	out, err := g.AddSignal(dev, "out", object.DirOutgoing, value.TypeFloat32, 1)
	require.NoError(t, err)
	in, err := g.AddSignal(dev, "in", object.DirIncoming, value.TypeFloat32, 1)
	require.NoError(t, err)
	m, err := g.AddMap(in, out)
	require.NoError(t, err)
	poll(t, g)

	count := func(msg graph.Message, key string) int {
		n := 0
		for _, p := range msg.Props {
			if p.Key == key {
				n++
			}
		}
		return n
	}
	sigKey, versionKey := object.PropSignal.String(), object.PropVersion.String()

	last := ft.published[len(ft.published)-1]
	require.Equal(t, m.ID(), last.ID)
	assert.Equal(t, 1, count(last, sigKey))
	assert.Equal(t, 1, count(last, versionKey))

	ids := value.List(value.TypeSignal, out.ID(), in.ID())
	require.NoError(t, m.Set(object.PropKey(object.PropSignal), ids, true))
	last = ft.published[len(ft.published)-1]
	assert.Equal(t, 1, count(last, sigKey))

	g.Deliver(device(1, "remote"))
	poll(t, g)
	remote := g.Record(1)
	require.NoError(t, remote.Set(object.NameKey("rate"), value.Float32(48000), true))
	last = ft.published[len(ft.published)-1]
	assert.Equal(t, uint64(1), last.ID)
	assert.Equal(t, 0, count(last, versionKey))
	assert.Equal(t, 1, count(last, "rate"))
}

func TestAddSignalValidation(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	g.Deliver(device(1, "remote"))
	poll(t, g)
	_, err := g.AddSignal(g.Record(1), "x", object.DirIncoming, value.TypeInt32, 1)
	assert.ErrorIs(t, err, graph.ErrNotLocal)

	dev, err := g.AddDevice("local")
	require.NoError(t, err)
	_, err = g.AddSignal(dev, "x", object.DirIncoming, value.TypeDevice, 1)
	assert.ErrorIs(t, err, value.ErrUnsupported)
	_, err = g.AddSignal(dev, "x", object.DirIncoming, value.TypeInt32, 0)
	assert.ErrorIs(t, err, value.ErrEmpty)
	_, err = g.AddMap(nil)
	assert.ErrorIs(t, err, value.ErrEmpty)
}

func TestResolve(t *testing.T) {
	g, _ := newGraph(t, object.KindAll)
	g.Deliver(device(1, "a"))
	g.Deliver(signal(2, 1, "s"))
	poll(t, g)
	assert.Same(t, g.Record(1), g.Resolve(value.Handle(value.TypeDevice, 1)))
	assert.Nil(t, g.Resolve(value.Handle(value.TypeMap, 1)))
	assert.Nil(t, g.Resolve(value.Int64(1)))
	assert.Equal(t, 2, g.ResolveList(value.Handle(value.TypeSignal, 2, 1, 99)).Count())
	assert.Equal(t, 0, g.ResolveList(value.String("x")).Count())
}

func TestClose(t *testing.T) {
	ft := &fakeTransport{}
	g, err := graph.New(object.KindAll, graph.WithTransport(ft))
	require.NoError(t, err)
	g.Deliver(device(1, "a"))
	_, err = g.Poll(0)
	require.NoError(t, err)
	dev := g.Record(1)
	list := g.Devices()

	require.NoError(t, g.Close())
	assert.True(t, ft.closed)
	assert.True(t, dev.Stale())
	assert.ErrorIs(t, dev.Set(object.NameKey("x"), value.Int32(1), false), object.ErrStale)
	_, err = g.Poll(0)
	assert.ErrorIs(t, err, graph.ErrClosed)
	assert.False(t, list.Next())
	assert.ErrorIs(t, list.Err(), object.ErrStale)
	_, err = g.AddDevice("b")
	assert.ErrorIs(t, err, graph.ErrClosed)
	assert.NoError(t, g.Close())
}

func TestAddress(t *testing.T) {
	ft := &fakeTransport{}
	g, _ := newGraph(t, object.KindNone, graph.WithTransport(ft), graph.WithInterface("lo"))
	group, port := g.Address()
	assert.Equal(t, graph.DefaultGroup, group)
	assert.Equal(t, graph.DefaultPort, port)
	assert.Equal(t, "lo", g.Interface())

	require.NoError(t, g.SetAddress("224.0.1.4", 7571))
	group, port = g.Address()
	assert.Equal(t, "224.0.1.4", group)
	assert.Equal(t, 7571, port)
	assert.Equal(t, []string{graph.DefaultGroup, "224.0.1.4"}, ft.binds)
	assert.Empty(t, ft.subscribes)
}
