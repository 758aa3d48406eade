package autoreply

import "testing"

func TestMatchWholeWordOnly(t *testing.T) {
	triggers := []Trigger{
		{Word: "ip", Enabled: true, WholeWordOnly: true},
	}

	if _, found := Match("can you check my equipment", triggers); found {
		t.Fatalf("whole-word trigger matched inside a larger word")
	}
	if _, found := Match("what is my ip address", triggers); !found {
		t.Fatalf("whole-word trigger did not match a standalone word")
	}
	if _, found := Match("IP please", triggers); !found {
		t.Fatalf("case-insensitive whole-word trigger did not match uppercase")
	}
}

func TestMatchSubstring(t *testing.T) {
	triggers := []Trigger{
		{Word: "ip", Enabled: true},
	}
	if _, found := Match("new equipment arrived", triggers); !found {
		t.Fatalf("substring trigger should match inside larger words")
	}
}

func TestMatchCaseSensitive(t *testing.T) {
	triggers := []Trigger{
		{Word: "IP", Enabled: true, CaseSensitive: true},
	}
	if _, found := Match("what is my ip", triggers); found {
		t.Fatalf("case-sensitive trigger matched a lowercase word")
	}
	if _, found := Match("what is my IP", triggers); !found {
		t.Fatalf("case-sensitive trigger did not match exact casing")
	}
}

func TestMatchFirstEnabledWins(t *testing.T) {
	triggers := []Trigger{
		{Word: "help", Enabled: false, Reply: ReplyEmbed{Title: "disabled"}},
		{Word: "help", Enabled: true, Reply: ReplyEmbed{Title: "first"}},
		{Word: "help", Enabled: true, Reply: ReplyEmbed{Title: "second"}},
	}
	trigger, found := Match("I need help", triggers)
	if !found {
		t.Fatalf("expected a match")
	}
	if trigger.Reply.Title != "first" {
		t.Fatalf("expected first enabled trigger, got %q", trigger.Reply.Title)
	}
}

func TestUpdateTriggerToggleDisablesMatching(t *testing.T) {
	triggers := []Trigger{
		{Word: "ip", Enabled: true, WholeWordOnly: true},
		{Word: "help", Enabled: true},
	}

	if !updateTrigger(triggers, "IP", func(tr *Trigger) { tr.Enabled = !tr.Enabled }) {
		t.Fatalf("toggle should find the trigger case-insensitively")
	}
	if _, found := Match("what is my ip", triggers); found {
		t.Fatalf("disabled trigger must not match")
	}

	if !updateTrigger(triggers, "ip", func(tr *Trigger) { tr.Enabled = !tr.Enabled }) {
		t.Fatalf("second toggle should find the trigger")
	}
	if _, found := Match("what is my ip", triggers); !found {
		t.Fatalf("re-enabled trigger must match again")
	}

	if updateTrigger(triggers, "missing", func(tr *Trigger) {}) {
		t.Fatalf("unknown word must not report an update")
	}
}

func TestUpdateTriggerEditsReply(t *testing.T) {
	triggers := []Trigger{{Word: "rules", Enabled: true, Reply: ReplyEmbed{Title: "Old"}}}

	updated := updateTrigger(triggers, "rules", func(tr *Trigger) {
		tr.Reply.Title = "Server Rules"
		tr.WholeWordOnly = true
	})
	if !updated {
		t.Fatalf("edit should find the trigger")
	}
	if triggers[0].Reply.Title != "Server Rules" || !triggers[0].WholeWordOnly {
		t.Fatalf("trigger not updated in place: %+v", triggers[0])
	}
	if !triggers[0].Enabled {
		t.Fatalf("edit must not change the enabled state")
	}
}

func TestMatchQuotesRegexMeta(t *testing.T) {
	triggers := []Trigger{
		{Word: "a+b", Enabled: true, WholeWordOnly: true},
	}
	// The word is treated literally: "a+b" must not behave like the
	// regex a+b.
	if _, found := Match("aaab", triggers); found {
		t.Fatalf("metacharacters in the word were interpreted as regex")
	}
	if _, found := Match("type a+b here", triggers); !found {
		t.Fatalf("literal word with regex metacharacters did not match")
	}
}
