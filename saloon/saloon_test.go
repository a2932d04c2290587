package saloon_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/saloonhub/saloonstore/saloon"
)

func TestSaloonPayloadValidate(t *testing.T) {
	testCases := map[string]struct {
		payload saloon.SaloonPayload
		msg     string
	}{
		"valid": {
			payload: saloon.SaloonPayload{Name: "Joe's", Location: "NYC", SaloonURL: "http://a"},
		},
		"empty-name": {
			payload: saloon.SaloonPayload{Location: "NYC", SaloonURL: "http://a"},
			msg:     "name must not be empty",
		},
		"blank-location": {
			payload: saloon.SaloonPayload{Name: "Joe's", Location: " \t\n", SaloonURL: "http://a"},
			msg:     "location must not be empty",
		},
		"empty-url": {
			payload: saloon.SaloonPayload{Name: "Joe's", Location: "NYC"},
			msg:     "saloon_url must not be empty",
		},
		"all-empty-reports-name-first": {
			payload: saloon.SaloonPayload{},
			msg:     "name must not be empty",
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			err := testCase.payload.Validate()

			if testCase.msg == "" {
				if err != nil {
					t.Fatalf("expected err to be nil, got %#v", err)
				}

				return
			}

			if !errors.Is(err, saloon.ErrBadRequest) {
				t.Fatalf("expected ErrBadRequest, got %#v", err)
			}

			if err.Error() != testCase.msg {
				t.Fatalf("expected message %q, got %q", testCase.msg, err.Error())
			}
		})
	}
}

func TestServicePayloadValidate(t *testing.T) {
	testCases := map[string]struct {
		payload saloon.ServicePayload
		msg     string
	}{
		"valid":             {payload: saloon.ServicePayload{ServiceName: "Cut", ServiceDescription: "Haircut"}},
		"empty-name":        {payload: saloon.ServicePayload{ServiceDescription: "Haircut"}, msg: "service_name must not be empty"},
		"blank-description": {payload: saloon.ServicePayload{ServiceName: "Cut", ServiceDescription: "  "}, msg: "service_description must not be empty"},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			err := testCase.payload.Validate()

			if testCase.msg == "" {
				if err != nil {
					t.Fatalf("expected err to be nil, got %#v", err)
				}

				return
			}

			if !errors.Is(err, saloon.ErrBadRequest) || err.Error() != testCase.msg {
				t.Fatalf("expected bad request %q, got %#v", testCase.msg, err)
			}
		})
	}
}

func TestRemoveServices(t *testing.T) {
	s := saloon.Saloon{Services: []saloon.SaloonService{
		{ServiceName: "Cut", ServiceDescription: "a"},
		{ServiceName: "Shave", ServiceDescription: "b"},
		{ServiceName: "Cut", ServiceDescription: "c"},
		{ServiceName: "cut", ServiceDescription: "d"},
		{ServiceName: "Dye", ServiceDescription: "e"},
	}}

	if n := s.RemoveServices("Cut"); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}

	expected := []saloon.SaloonService{
		{ServiceName: "Shave", ServiceDescription: "b"},
		{ServiceName: "cut", ServiceDescription: "d"},
		{ServiceName: "Dye", ServiceDescription: "e"},
	}

	if diff := cmp.Diff(expected, s.Services); diff != "" {
		t.Fatal(diff)
	}

	if n := s.RemoveServices("Missing"); n != 0 {
		t.Fatalf("expected 0 removed, got %d", n)
	}
}

func TestErrors(t *testing.T) {
	err := saloon.NotFound("a saloon with id=%d not found", 7)

	if !errors.Is(err, saloon.ErrNotFound) || errors.Is(err, saloon.ErrNotAuthorized) {
		t.Fatalf("unexpected error kind for %#v", err)
	}

	if err.Error() != "a saloon with id=7 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if !saloon.IsCallerError(err) || saloon.IsCallerError(errors.New("disk full")) {
		t.Fatalf("IsCallerError misclassified an error")
	}
}
