package planner

import (
	"reflect"
	"testing"
)

func TestUnsafeToHide(t *testing.T) {
	tests := []struct {
		name    string
		visible map[int][]string
		want    []string
	}{
		{
			name: "single-owner packages flagged",
			visible: map[int][]string{
				0:  {"com.shared", "com.only.main"},
				10: {"com.shared", "com.only.second"},
			},
			want: []string{"com.only.main", "com.only.second"},
		},
		{
			name: "everything shared",
			visible: map[int][]string{
				0:  {"com.a"},
				10: {"com.a"},
			},
			want: nil,
		},
		{
			name: "single user owns everything",
			visible: map[int][]string{
				0: {"com.a", "com.b"},
			},
			want: []string{"com.a", "com.b"},
		},
		{
			name:    "no packages",
			visible: map[int][]string{0: {}},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := stateOf(tt.visible)
			got := UnsafeToHide(state)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UnsafeToHide() = %v, want %v", got, tt.want)
			}
		})
	}
}
