// SPDX-License-Identifier: EPL-2.0

package port

import (
	"sync"
	"testing"
)

func TestValue_Kinds(t *testing.T) {
	t.Parallel()

	if v, ok := DoubleValue(120).Double(); !ok || v != 120 {
		t.Errorf("Double() = %v, %v", v, ok)
	}
	if _, ok := DoubleValue(1).Uint(); ok {
		t.Error("double value read as uint")
	}
	if v, ok := FloatValue(0.25).Float(); !ok || v != 0.25 {
		t.Errorf("Float() = %v, %v", v, ok)
	}
	if v, ok := UintValue(64).Uint(); !ok || v != 64 {
		t.Errorf("Uint() = %v, %v", v, ok)
	}
	if v, ok := IntValue(-3).Int(); !ok || v != -3 {
		t.Errorf("Int() = %v, %v", v, ok)
	}
	if v, ok := BoolValue(true).Bool(); !ok || !v {
		t.Errorf("Bool() = %v, %v", v, ok)
	}
	if (Value{}).Kind() != KindNone || (Value{}).String() != "<none>" {
		t.Error("zero value should hold nothing")
	}
}

func TestRead_FallsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		port *Port
		want float64
	}{
		{"nil port", nil, 7},
		{"wrong kind", New("bpm", UintValue(3)), 7},
		{"empty", New("bpm", Value{}), 7},
		{"set", New("bpm", DoubleValue(96)), 96},
	}

	for _, tt := range tests {
		if got := ReadDouble(tt.port, 7); got != tt.want {
			t.Errorf("%s: ReadDouble() = %v, want %v", tt.name, got, tt.want)
		}
	}

	if !ReadBool(nil, true) || ReadUint(New("x", BoolValue(true)), 9) != 9 {
		t.Error("typed readers did not fall back")
	}
}

func TestPort_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	p := New("loop-end", UintValue(0))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				Write(p, UintValue(uint64(i*100+j)))
				_ = ReadUint(p, 0)
			}
		}()
	}
	wg.Wait()

	if p.SafeRead().Kind() != KindUint || p.Name() != "loop-end" {
		t.Error("port state corrupted")
	}

	Write(nil, UintValue(1))
}
