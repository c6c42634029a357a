package result

import (
	"errors"
	"testing"
)

func TestResult(t *testing.T) {
	ok := Ok(42)
	if !ok.OK || ok.Data != 42 || ok.Err != nil {
		t.Fatalf("Ok() = %+v", ok)
	}
	if v, err := ok.Unwrap(); err != nil || v != 42 {
		t.Errorf("Unwrap() = %v, %v, want 42, nil", v, err)
	}
	if ok.Message() != "" {
		t.Errorf("Message() = %q, want empty", ok.Message())
	}

	failed := Fail[int](FromStatus(404, "Not Found", Tag("get", "getStudent")))
	if failed.OK {
		t.Fatal("Fail().OK = true")
	}
	_, err := failed.Unwrap()
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 404 {
		t.Errorf("Unwrap() error = %v, want APIError 404", err)
	}
	if failed.Message() != "Not Found" {
		t.Errorf("Message() = %q, want %q", failed.Message(), "Not Found")
	}
}

func TestLocal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "with error", err: errors.New("dial tcp: refused"), want: "dial tcp: refused"},
		{name: "nil error", err: nil, want: "An unknown error occured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Local(tt.err, Tag("post", "postRfid"))
			if got.Code != 500 || got.Message != tt.want {
				t.Errorf("Local() = %+v, want code 500 message %q", got, tt.want)
			}
			if got.Details != "[Error] (post) <postRfid()>" {
				t.Errorf("Local().Details = %q", got.Details)
			}
		})
	}
}
