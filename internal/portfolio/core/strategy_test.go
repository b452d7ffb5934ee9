package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestFirstNonEmptyPicksFirstProducingStrategy(t *testing.T) {
	calls := []string{}
	strategies := []Strategy[int]{
		{Name: "empty", Run: func(context.Context) ([]int, error) {
			calls = append(calls, "empty")
			return nil, nil
		}},
		{Name: "broken", Run: func(context.Context) ([]int, error) {
			calls = append(calls, "broken")
			return []int{9}, errors.New("boom")
		}},
		{Name: "good", Run: func(context.Context) ([]int, error) {
			calls = append(calls, "good")
			return []int{1, 2}, nil
		}},
		{Name: "never", Run: func(context.Context) ([]int, error) {
			calls = append(calls, "never")
			return []int{3}, nil
		}},
	}
	items, name, attempts := FirstNonEmpty(context.Background(), strategies)
	if name != "good" {
		t.Fatalf("unexpected winner: %q", name)
	}
	if !reflect.DeepEqual(items, []int{1, 2}) {
		t.Fatalf("unexpected items: %v", items)
	}
	if !reflect.DeepEqual(calls, []string{"empty", "broken", "good"}) {
		t.Fatalf("unexpected call order: %v", calls)
	}
	if len(attempts) != 3 || attempts[1].Err == nil {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
}

func TestFirstNonEmptyAllEmpty(t *testing.T) {
	items, name, _ := FirstNonEmpty(context.Background(), []Strategy[string]{
		{Name: "a", Run: func(context.Context) ([]string, error) { return nil, errors.New("down") }},
	})
	if items != nil || name != "" {
		t.Fatalf("expected no result, got %v from %q", items, name)
	}
}

func TestFirstSuccessTriesEachCandidateOnce(t *testing.T) {
	counts := map[string]int{}
	candidates := []Candidate[string]{
		{Name: "direct", Fetch: func(context.Context) (string, error) {
			counts["direct"]++
			return "", errors.New("status 503")
		}},
		{Name: "proxy", Fetch: func(context.Context) (string, error) {
			counts["proxy"]++
			return "payload", nil
		}},
		{Name: "spare", Fetch: func(context.Context) (string, error) {
			counts["spare"]++
			return "other", nil
		}},
	}
	v, name, err := FirstSuccess(context.Background(), candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "payload" || name != "proxy" {
		t.Fatalf("unexpected result %q from %q", v, name)
	}
	if counts["direct"] != 1 || counts["proxy"] != 1 || counts["spare"] != 0 {
		t.Fatalf("unexpected call counts: %v", counts)
	}
}

func TestFirstSuccessWrapsLastError(t *testing.T) {
	_, _, err := FirstSuccess(context.Background(), []Candidate[int]{
		{Name: "a", Fetch: func(context.Context) (int, error) { return 0, ErrEmpty }},
	})
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	_, _, err = FirstSuccess[int](context.Background(), nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestRichRendering(t *testing.T) {
	r := Rich{{Text: "Speaker at "}, {Text: "PyCon", Href: "https://pycon.org"}, {Text: " & more"}}
	if got := r.Plain(); got != "Speaker at PyCon & more" {
		t.Fatalf("unexpected plain text: %q", got)
	}
	want := `Speaker at <a href="https://pycon.org" target="_blank" rel="noopener">PyCon</a> &amp; more`
	if got := r.HTML(); got != want {
		t.Fatalf("unexpected html:\n got=%s\nwant=%s", got, want)
	}
	if links := r.Links(); len(links) != 1 || links[0].Href != "https://pycon.org" {
		t.Fatalf("unexpected links: %+v", links)
	}
}

func TestFirstNonEmptyRunsPureStrategiesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	networkCalled := false
	items, name, attempts := FirstNonEmpty(ctx, []Strategy[int]{
		{Name: "network", Run: func(context.Context) ([]int, error) {
			networkCalled = true
			return []int{1}, nil
		}},
		{Name: "local", Pure: true, Run: func(context.Context) ([]int, error) {
			return []int{7}, nil
		}},
	})
	if networkCalled {
		t.Fatalf("network strategy should be skipped once ctx is done")
	}
	if name != "local" || !reflect.DeepEqual(items, []int{7}) {
		t.Fatalf("expected pure strategy to win, got %v from %q", items, name)
	}
	if len(attempts) != 2 || !errors.Is(attempts[0].Err, context.Canceled) {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
}
