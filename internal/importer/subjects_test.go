package importer

import (
	"reflect"
	"testing"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

func testSubjectCache() *SubjectCache {
	return NewSubjectCache([]*models.Subject{
		{ID: 1, Name: "Français"},
		{ID: 2, Name: "Mathématiques"},
		{ID: 3, Name: "Anglais"},
	})
}

func TestSubjectCacheResolve(t *testing.T) {
	cache := testSubjectCache()

	tests := []struct {
		name          string
		field         string
		wantIDs       []int64
		wantUnmatched []string
	}{
		{name: "single", field: "Français", wantIDs: []int64{1}},
		{name: "list", field: "Français, Anglais", wantIDs: []int64{1, 3}},
		{name: "case insensitive", field: "MATHÉMATIQUES", wantIDs: []int64{2}},
		{name: "untrimmed", field: " Anglais ,Français", wantIDs: []int64{3, 1}},
		{name: "unknown token", field: "Français, Russe", wantIDs: []int64{1}, wantUnmatched: []string{"Russe"}},
		{name: "empty tokens", field: ", ,Anglais,", wantIDs: []int64{3}},
		{name: "empty field", field: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, unmatched := cache.Resolve(tt.field)
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			if !reflect.DeepEqual(unmatched, tt.wantUnmatched) {
				t.Errorf("unmatched = %v, want %v", unmatched, tt.wantUnmatched)
			}
		})
	}
}
