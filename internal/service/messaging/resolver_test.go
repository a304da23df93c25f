package messaging_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

func TestResolveIndividual(t *testing.T) {
	r := messaging.NewResolver(&memDir{})
	got, err := r.Resolve(context.Background(), &messaging.SendRequest{
		To:         messaging.ModeIndividual,
		Recipients: []string{"a@x.org", "b@x.org"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a@x.org", "b@x.org"}) {
		t.Errorf("got %v", got)
	}
}

func TestResolveTestSendKeepsFirstOnly(t *testing.T) {
	r := messaging.NewResolver(&memDir{active: []string{"everyone@x.org"}})
	got, err := r.Resolve(context.Background(), &messaging.SendRequest{
		To:         messaging.ModeAll,
		Recipients: []string{"me@x.org", "also@x.org"},
		IsTest:     true,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// A test send never fans out, whatever the mode says.
	if !reflect.DeepEqual(got, []string{"me@x.org"}) {
		t.Errorf("got %v, want just me@x.org", got)
	}
}

func TestResolveAll(t *testing.T) {
	r := messaging.NewResolver(&memDir{active: []string{"a@x.org", "b@x.org"}})
	got, err := r.Resolve(context.Background(), &messaging.SendRequest{To: messaging.ModeAll})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %v", got)
	}
}

func TestResolveGroupsKeepDuplicates(t *testing.T) {
	r := messaging.NewResolver(&memDir{byGroup: map[string][]string{
		"choir": {"ana@x.org", "ben@x.org"},
		"youth": {"ana@x.org"},
	}})
	got, err := r.Resolve(context.Background(), &messaging.SendRequest{
		To:       messaging.ModeGroup,
		GroupIDs: []string{"choir", "youth"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// Ana is in both groups and appears twice.
	if len(got) != 3 {
		t.Errorf("expected 3 addresses with the duplicate preserved, got %v", got)
	}
}
