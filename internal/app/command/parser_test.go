package command

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse_Shapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Invocation
	}{
		{
			name: "bare action",
			raw:  "LOOK",
			want: Invocation{Action: "look"},
		},
		{
			name: "action with target",
			raw:  "GRAB knife",
			want: Invocation{Action: "grab", Targets: []string{"knife"}},
		},
		{
			name: "placement qualifier",
			raw:  "PLACE knife IN drawer",
			want: Invocation{Action: "place", Targets: []string{"knife"}, Preposition: "in", Destination: "drawer"},
		},
		{
			name: "surface qualifier",
			raw:  "place mug on table",
			want: Invocation{Action: "place", Targets: []string{"mug"}, Preposition: "on", Destination: "table"},
		},
		{
			name: "cooperative with destination",
			raw:  "CORP_PLACE a1,a2 heavy_box IN storage_room",
			want: Invocation{Action: "corp_place", Agents: []string{"a1", "a2"}, Targets: []string{"heavy_box"}, Preposition: "in", Destination: "storage_room"},
		},
		{
			name: "cooperative grab",
			raw:  "CORP_GRAB a1,a2 heavy_box",
			want: Invocation{Action: "corp_grab", Agents: []string{"a1", "a2"}, Targets: []string{"heavy_box"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.raw, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parse %q = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"place knife in",
		"grab a1,,a2 box",
		"place in knife drawer",
	} {
		if _, err := Parse(raw); !errors.Is(err, ErrMalformed) {
			t.Fatalf("parse %q: expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestParse_MalformedIsIdempotent(t *testing.T) {
	_, err1 := Parse("place knife in")
	_, err2 := Parse("place knife in")
	if !errors.Is(err1, ErrMalformed) || !errors.Is(err2, ErrMalformed) {
		t.Fatalf("expected ErrMalformed twice, got %v / %v", err1, err2)
	}
}
