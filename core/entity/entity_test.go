package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    ID
		wantErr bool
	}{
		{name: "number", data: `1`, want: "1"},
		{name: "big number", data: `9007199254740993`, want: "9007199254740993"},
		{name: "string", data: `"abc-1"`, want: "abc-1"},
		{name: "null", data: `null`, want: ""},
		{name: "bool", data: `true`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.data), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if id != tt.want {
				t.Errorf("Unmarshal() = %q, want %q", id, tt.want)
			}
		})
	}
}

func TestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{id: "12", want: `12`},
		{id: "0", want: `0`},
		{id: "007", want: `"007"`},
		{id: "u-1", want: `"u-1"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			b, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestStudent_decode(t *testing.T) {
	data := `{"id":3,"firstName":"Amina","lastName":"K","classId":"2","profilePic":null,"type":"STUDENT"}`
	var s Student
	require.NoError(t, json.Unmarshal([]byte(data), &s))
	assert.Equal(t, ID("3"), s.ID)
	assert.Equal(t, ID("2"), s.ClassID)
	assert.False(t, s.ProfilePic.Valid)

	s.ProfilePic = null.StringFrom("http://img/3.png")
	row, err := Cells(s, []Column{{"id", "ID"}, {"firstName", "First"}, {"profilePic", "Pic"}, {"missing", "?"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "Amina", "http://img/3.png", ""}, row)
}

func TestRecord(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"amount":12.5,"paid":false,"tags":["a"]}`), &r))
	assert.Equal(t, ID("42"), r.ID())
	assert.Equal(t, "12.5", r.Text("amount"))
	assert.Equal(t, "false", r.Text("paid"))
	assert.Equal(t, `["a"]`, r.Text("tags"))
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "students", want: "students", wantOK: true},
		{name: " Teachers ", want: "teachers", wantOK: true},
		{name: "fee", want: "fees", wantOK: true},
		{name: "student", want: "students", wantOK: true},
		{name: "studnets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Lookup(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if d.Name != tt.want {
				t.Errorf("Lookup(%q) = %s, want %s", tt.name, d.Name, tt.want)
			}
		})
	}

	for _, d := range Descriptors() {
		assert.NotEmpty(t, d.Columns, d.Name)
		assert.NotEmpty(t, d.Fields, d.Name)
		assert.Equal(t, "id", d.Columns[0].Key, d.Name)
	}
}
