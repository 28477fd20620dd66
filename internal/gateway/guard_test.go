package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateway_Authorize(t *testing.T) {
	type args struct {
		op         Operation
		collection string
	}
	tests := []struct {
		name     string
		readOnly bool
		args     args
		wantCode Code
	}{
		{"read in read-write mode", false, args{OpQuery, "users"}, ""},
		{"read in read-only mode", true, args{OpQuery, "users"}, ""},
		{"aggregate in read-only mode", true, args{OpAggregate, "users"}, ""},
		{"count in read-only mode", true, args{OpCount, "users"}, ""},
		{"distinct in read-only mode", true, args{OpDistinct, "users"}, ""},
		{"update in read-write mode", false, args{OpUpdate, "users"}, ""},
		{"update in read-only mode", true, args{OpUpdate, "users"}, CodeUnauthorized},
		{"insert in read-only mode", true, args{OpInsert, "users"}, CodeUnauthorized},
		{"createIndex in read-only mode", true, args{OpCreateIndex, "users"}, CodeUnauthorized},
		{"serverInfo in read-only mode", true, args{OpServerInfo, ""}, ""},
		{"system collection read", false, args{OpQuery, "system.indexes"}, CodeUnauthorized},
		{"system collection write", false, args{OpInsert, "system.profile"}, CodeUnauthorized},
		{"system collection in read-only mode", true, args{OpQuery, "system.views"}, CodeUnauthorized},
		{"system as infix is allowed", false, args{OpQuery, "ecosystem.plants"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Config{ReadOnly: tt.readOnly})
			gwErr := g.Authorize(tt.args.op, tt.args.collection)
			if tt.wantCode == "" {
				assert.Nil(t, gwErr)
				return
			}
			if assert.NotNil(t, gwErr) {
				assert.Equal(t, tt.wantCode, gwErr.Code)
			}
		})
	}
}

func Test_isWrite(t *testing.T) {
	writes := map[Operation]bool{
		OpQuery:       false,
		OpAggregate:   false,
		OpCount:       false,
		OpDistinct:    false,
		OpUpdate:      true,
		OpInsert:      true,
		OpCreateIndex: true,
		OpServerInfo:  false,
	}
	for op, want := range writes {
		assert.Equalf(t, want, isWrite(op), "isWrite(%s)", op)
	}
}
