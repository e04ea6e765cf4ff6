package midjourney

import (
	"context"
	"errors"
	"testing"
	"time"

	"avatargen/internal/discord"
)

func TestExtractSeed(t *testing.T) {
	cases := []struct {
		content string
		seed    string
		ok      bool
	}{
		{"**seed** 42\nJob ID: abc-123", "42", true},
		{"**Seed** 1234567890", "1234567890", true},
		{"**seed**999", "999", true},
		{"seed 42", "", false},
		{"**seed** none", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		seed, ok := ExtractSeed(tc.content)
		if ok != tc.ok || seed != tc.seed {
			t.Errorf("ExtractSeed(%q) = (%q, %v), want (%q, %v)", tc.content, seed, ok, tc.seed, tc.ok)
		}
	}
}

func TestIsSeedMessage(t *testing.T) {
	msg := discord.Message{
		Author:  discord.User{Username: BotUsername},
		Content: "**seed** 42 ... Job ID: abc",
	}
	if !isSeedMessage(msg, BotUsername) {
		t.Fatal("seed disclosure not recognized")
	}

	noJobID := msg
	noJobID.Content = "**seed** 42"
	if isSeedMessage(noJobID, BotUsername) {
		t.Fatal("message without Job ID marker accepted")
	}

	wrongAuthor := msg
	wrongAuthor.Author.Username = "someone else"
	if isSeedMessage(wrongAuthor, BotUsername) {
		t.Fatal("message from wrong author accepted")
	}
}

type fakeFeed struct {
	batches [][]discord.Message
	errs    []error
	calls   int
}

func (f *fakeFeed) ListMessages(ctx context.Context, channelID string, limit int) ([]discord.Message, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.batches) {
		return f.batches[i], nil
	}
	return nil, nil
}

func seedMessage(seed string) discord.Message {
	return discord.Message{
		Author:  discord.User{Username: BotUsername},
		Content: "**seed** " + seed + " ... Job ID: job-1",
	}
}

func TestRecoverSeedFirstAttempt(t *testing.T) {
	feed := &fakeFeed{batches: [][]discord.Message{{seedMessage("42")}}}
	seed, ok := RecoverSeed(context.Background(), feed, SeedRecoveryOptions{ChannelID: "dm", Attempts: 3})
	if !ok || seed != "42" {
		t.Fatalf("RecoverSeed = (%q, %v), want (42, true)", seed, ok)
	}
	if feed.calls != 1 {
		t.Fatalf("feed polled %d times, want 1", feed.calls)
	}
}

func TestRecoverSeedRetriesThenFinds(t *testing.T) {
	feed := &fakeFeed{
		batches: [][]discord.Message{
			nil,
			{{Author: discord.User{Username: "other"}, Content: "**seed** 7 Job ID"}},
			{seedMessage("7")},
		},
	}
	seed, ok := RecoverSeed(context.Background(), feed, SeedRecoveryOptions{
		ChannelID: "dm",
		Attempts:  3,
		Delay:     time.Millisecond,
	})
	if !ok || seed != "7" {
		t.Fatalf("RecoverSeed = (%q, %v), want (7, true)", seed, ok)
	}
	if feed.calls != 3 {
		t.Fatalf("feed polled %d times, want 3", feed.calls)
	}
}

func TestRecoverSeedGivesUpAfterAllAttempts(t *testing.T) {
	feed := &fakeFeed{}
	seed, ok := RecoverSeed(context.Background(), feed, SeedRecoveryOptions{
		ChannelID: "dm",
		Attempts:  3,
		Delay:     time.Millisecond,
	})
	if ok || seed != "" {
		t.Fatalf("RecoverSeed = (%q, %v), want miss", seed, ok)
	}
	if feed.calls != 3 {
		t.Fatalf("feed polled %d times, want 3", feed.calls)
	}
}

func TestRecoverSeedSwallowsAttemptErrors(t *testing.T) {
	feed := &fakeFeed{
		errs:    []error{errors.New("listing failed"), nil},
		batches: [][]discord.Message{nil, {seedMessage("9")}},
	}
	seed, ok := RecoverSeed(context.Background(), feed, SeedRecoveryOptions{
		ChannelID: "dm",
		Attempts:  2,
		Delay:     time.Millisecond,
	})
	if !ok || seed != "9" {
		t.Fatalf("RecoverSeed = (%q, %v), want (9, true)", seed, ok)
	}
}

func TestRecoverSeedStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	feed := &fakeFeed{}
	_, ok := RecoverSeed(ctx, feed, SeedRecoveryOptions{ChannelID: "dm", Attempts: 3, Delay: time.Minute})
	if ok {
		t.Fatal("expected miss on cancelled context")
	}
	if feed.calls > 1 {
		t.Fatalf("feed polled %d times after cancellation", feed.calls)
	}
}
