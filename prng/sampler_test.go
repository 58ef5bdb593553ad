package prng

import (
	"errors"
	"testing"
)

// fixedBits replays a forced bit sequence and counts draws.
type fixedBits struct {
	t     *testing.T
	bits  []uint8
	drawn int
}

func (f *fixedBits) Bit() uint8 {
	if f.drawn >= len(f.bits) {
		f.t.Fatalf("bit source exhausted after %d draws", f.drawn)
	}
	b := f.bits[f.drawn]
	f.drawn++
	return b
}

// countingBits wraps a real stream and counts draws.
type countingBits struct {
	src   BitSource
	drawn int
}

func (c *countingBits) Bit() uint8 {
	c.drawn++
	return c.src.Bit()
}

func TestDivide(t *testing.T) {
	r := interval{lo: 1, hi: 2}
	if got := divide(r, 0); got != (interval{lo: 1, hi: 1.5}) {
		t.Errorf("divide low = %v, want (1, 1.5)", got)
	}
	if got := divide(r, 1); got != (interval{lo: 1.5, hi: 2}) {
		t.Errorf("divide high = %v, want (1.5, 2)", got)
	}
}

func TestSubranges_First(t *testing.T) {
	valid := subranges{min: 2, max: 3}

	tests := []struct {
		name   string
		cur    interval
		want   int
		wantOK bool
	}{
		{name: "completely_outside", cur: interval{lo: -1, hi: 0}},
		{name: "partially_outside", cur: interval{lo: 1, hi: 2}},
		{name: "straddles_boundary", cur: interval{lo: 2.4, hi: 2.6}},
		{name: "inside_second", cur: interval{lo: 2.6, hi: 3}, want: 1, wantOK: true},
		{name: "inside_first", cur: interval{lo: 1.5, hi: 2.5}, want: 0, wantOK: true},
		{name: "point_on_shared_edge", cur: interval{lo: 2.5, hi: 2.5}, want: 0, wantOK: true},
		{name: "above_range", cur: interval{lo: 3.6, hi: 3.7}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := valid.first(tc.cur)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("first(%v) = (%d, %v), want (%d, %v)", tc.cur, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestSubranges_FirstMatchesLinearScan(t *testing.T) {
	valid := subranges{min: -3, max: 4}
	scan := func(cur interval) (int, bool) {
		for i := 0; i < valid.len(); i++ {
			if valid.at(i).contains(cur) {
				return i, true
			}
		}
		return 0, false
	}

	for lo := -4.0; lo <= 5; lo += 0.125 {
		for hi := lo; hi <= lo+1.5; hi += 0.125 {
			cur := interval{lo: lo, hi: hi}
			gi, gok := valid.first(cur)
			wi, wok := scan(cur)
			if gi != wi || gok != wok {
				t.Fatalf("first(%v) = (%d, %v), scan = (%d, %v)", cur, gi, gok, wi, wok)
			}
		}
	}
}

func TestSampler_Int_ForcedBits(t *testing.T) {
	tests := []struct {
		bits []uint8
		want int
	}{
		{bits: []uint8{1, 0, 1}, want: 4},
		{bits: []uint8{1, 1, 1}, want: 5},
		{bits: []uint8{0, 0, 0}, want: 1},
		{bits: []uint8{0, 1, 0}, want: 2},
	}
	for _, tc := range tests {
		src := &fixedBits{t: t, bits: tc.bits}
		got, err := NewSampler(src).Int(1, 5)
		if err != nil {
			t.Fatalf("Int(1, 5) with bits %v: %v", tc.bits, err)
		}
		if got != tc.want {
			t.Errorf("Int(1, 5) with bits %v = %d, want %d", tc.bits, got, tc.want)
		}
		if src.drawn != len(tc.bits) {
			t.Errorf("bits %v: drew %d bits, want %d", tc.bits, src.drawn, len(tc.bits))
		}
	}
}

func TestSampler_Int_Degenerate(t *testing.T) {
	for _, v := range []int{-100, -1, 0, 1, 7, 1 << 40} {
		src := &countingBits{src: NewStream(Seed("foo"))}
		got, err := NewSampler(src).Int(v, v)
		if err != nil {
			t.Fatalf("Int(%d, %d): %v", v, v, err)
		}
		if got != v {
			t.Errorf("Int(%d, %d) = %d", v, v, got)
		}
		if src.drawn != 0 {
			t.Errorf("Int(%d, %d) consumed %d bits, want 0", v, v, src.drawn)
		}
	}
}

func TestSampler_Int_InvalidRange(t *testing.T) {
	s := New("foo")
	if _, err := s.Int(5, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Int(5, 1) error = %v, want %v", err, ErrInvalidArgument)
	}

	const edge = int64(1) << 52
	rejected := []struct{ min, max int64 }{
		{0, 1 << 53},
		{edge - 1, edge},
		{-edge, -edge + 1},
		{-edge, edge},
	}
	for _, r := range rejected {
		if _, err := s.Int(int(r.min), int(r.max)); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Int(%d, %d) error = %v, want %v", r.min, r.max, err, ErrInvalidArgument)
		}
	}

	if _, err := s.Int(int(edge-2), int(edge-1)); err != nil {
		t.Errorf("Int(2^52-2, 2^52-1) error = %v", err)
	}
	if _, err := s.Int(int(-edge+1), int(-edge+2)); err != nil {
		t.Errorf("Int(-2^52+1, -2^52+2) error = %v", err)
	}
}

func TestSampler_Int_NearSpanIsUnbiased(t *testing.T) {
	const edge = 1<<52 - 1
	s := New("foo")
	counts := map[int]int{}
	for i := 0; i < 2000; i++ {
		v, err := s.Int(edge-1, edge)
		if err != nil {
			t.Fatalf("Int: %v", err)
		}
		counts[v]++
	}
	for _, v := range []int{edge - 1, edge} {
		if c := counts[v]; c < 850 || c > 1150 {
			t.Errorf("value %d drawn %d times out of 2000, want about 1000", v, c)
		}
	}
}

func TestSampler_Int_Golden(t *testing.T) {
	tests := []struct {
		name     string
		seed     any
		min, max int
		want     []int
	}{
		{name: "foo_die", seed: "foo", min: 1, max: 6, want: []int{4, 5, 5, 3, 3, 5, 3, 3, 1, 5, 4, 3}},
		{name: "foo_wide", seed: "foo", min: 0, max: 1000000, want: []int{603183, 943036, 784519, 223466}},
		{name: "int_seed_negative_range", seed: 42, min: -3, max: 3, want: []int{1, -1, 1, -2, -3, -2, 0, -3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(tc.seed)
			for i, want := range tc.want {
				got, err := s.Int(tc.min, tc.max)
				if err != nil {
					t.Fatalf("draw %d: %v", i, err)
				}
				if got != want {
					t.Fatalf("draw %d = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestSampler_Int_RangeAndReachability(t *testing.T) {
	const min, max = -2, 9
	seen := make(map[int]int)
	for _, seed := range []string{"alpha", "beta", "gamma", "delta"} {
		s := New(seed)
		for i := 0; i < 2500; i++ {
			v, err := s.Int(min, max)
			if err != nil {
				t.Fatalf("Int: %v", err)
			}
			if v < min || v > max {
				t.Fatalf("Int(%d, %d) = %d, out of range", min, max, v)
			}
			seen[v]++
		}
	}
	for v := min; v <= max; v++ {
		if seen[v] == 0 {
			t.Errorf("value %d never drawn in 10000 samples", v)
		}
	}
}

func TestChoice(t *testing.T) {
	seq := []rune("anything")

	want, err := New("foo").Int(0, len(seq)-1)
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	got, err := Choice(New("foo"), seq)
	if err != nil {
		t.Fatalf("Choice: %v", err)
	}
	if got != seq[want] {
		t.Errorf("Choice = %q, want %q", got, seq[want])
	}
}

func TestChoice_Golden(t *testing.T) {
	s := New("foo")
	letters := []rune("abcdef")
	for _, want := range []rune{'d', 'e'} {
		got, err := Choice(s, letters)
		if err != nil {
			t.Fatalf("Choice: %v", err)
		}
		if got != want {
			t.Errorf("Choice = %q, want %q", got, want)
		}
	}
}

func TestChoice_Empty(t *testing.T) {
	_, err := Choice(New("foo"), []string{})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Choice(empty) error = %v, want %v", err, ErrInvalidArgument)
	}
}

func TestChoice_SingleElementConsumesNothing(t *testing.T) {
	src := &countingBits{src: NewStream(Seed("foo"))}
	got, err := Choice(NewSampler(src), []string{"only"})
	if err != nil {
		t.Fatalf("Choice: %v", err)
	}
	if got != "only" || src.drawn != 0 {
		t.Errorf("Choice = %q after %d bits, want %q after 0", got, src.drawn, "only")
	}
}
