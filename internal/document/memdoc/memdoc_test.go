package memdoc

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fluxnote/scribe/internal/document"
)

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func kinds(nodes []document.Node) []document.BlockKind {
	out := make([]document.BlockKind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind
	}
	return out
}

func TestSetBlockType(t *testing.T) {
	d := New()
	must(t, d.SetBlockType(document.BlockHeading, 2))
	must(t, d.InsertInline("Title"))

	nodes := d.Nodes()
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if nodes[0].Kind != document.BlockHeading || nodes[0].Level != 2 || nodes[0].Text != "Title" {
		t.Errorf("node = %+v", nodes[0])
	}
}

func TestSetBlockTypeValidation(t *testing.T) {
	d := New()
	if err := d.SetBlockType("bogus", 0); err == nil {
		t.Error("unknown kind: expected error")
	}
	if err := d.SetBlockType(document.BlockHeading, 0); err == nil {
		t.Error("level 0: expected error")
	}
	if err := d.SetBlockType(document.BlockHeading, 7); err == nil {
		t.Error("level 7: expected error")
	}
	if d.Len() != 0 {
		t.Errorf("rejected commands must not create nodes, got %d", d.Len())
	}
}

func TestSetBlockTypeCommitsTypedContent(t *testing.T) {
	d := New()
	must(t, d.InsertInline("already typed"))
	must(t, d.SetBlockType(document.BlockHeading, 1))
	must(t, d.InsertInline("H"))

	nodes := d.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2: %v", len(nodes), kinds(nodes))
	}
	if nodes[0].Kind != document.BlockParagraph || nodes[0].Text != "already typed" {
		t.Errorf("first node = %+v", nodes[0])
	}
	if nodes[1].Kind != document.BlockHeading {
		t.Errorf("second node = %+v", nodes[1])
	}
}

func TestToggleListOpenAndClose(t *testing.T) {
	d := New()
	must(t, d.ToggleList(document.ListBullet))
	must(t, d.InsertInline("one"))
	must(t, d.SplitListItem())
	must(t, d.InsertInline("two"))
	// Same-kind toggle closes the run.
	must(t, d.ToggleList(document.ListBullet))
	must(t, d.InsertInline("after"))

	nodes := d.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3: %v", len(nodes), kinds(nodes))
	}
	if nodes[0].Kind != document.BlockListItem || nodes[0].List != document.ListBullet {
		t.Errorf("first item = %+v", nodes[0])
	}
	if nodes[2].Kind != document.BlockParagraph || nodes[2].Text != "after" {
		t.Errorf("trailing paragraph = %+v", nodes[2])
	}
}

func TestToggleListKindChange(t *testing.T) {
	d := New()
	must(t, d.ToggleList(document.ListBullet))
	must(t, d.InsertInline("a"))
	must(t, d.ToggleList(document.ListOrdered))
	must(t, d.InsertInline("b"))

	nodes := d.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].List != document.ListBullet || nodes[1].List != document.ListOrdered {
		t.Errorf("lists = %v, %v", nodes[0].List, nodes[1].List)
	}
}

func TestSplitListItemOutsideList(t *testing.T) {
	d := New()
	if err := d.SplitListItem(); !errors.Is(err, ErrNotInList) {
		t.Errorf("err = %v, want ErrNotInList", err)
	}
	must(t, d.InsertInline("paragraph"))
	if err := d.SplitListItem(); !errors.Is(err, ErrNotInList) {
		t.Errorf("err = %v, want ErrNotInList", err)
	}
}

func TestParagraphBreakCollapsesBlankLines(t *testing.T) {
	d := New()
	must(t, d.InsertInline("one"))
	must(t, d.InsertParagraphBreak())
	must(t, d.InsertParagraphBreak())
	must(t, d.InsertParagraphBreak())
	must(t, d.InsertInline("two"))
	must(t, d.InsertParagraphBreak())

	if d.Len() != 2 {
		t.Errorf("got %d nodes, want 2", d.Len())
	}
}

func TestInsertRaw(t *testing.T) {
	d := New()
	if err := d.InsertRaw("   "); err == nil {
		t.Error("whitespace-only fragment: expected error")
	}
	must(t, d.InsertRaw("<hr>"))
	must(t, d.InsertRaw(`<pre><code class="language-go">x</code></pre>`))

	nodes := d.Nodes()
	if nodes[0].Kind != document.BlockRule {
		t.Errorf("first = %v, want rule", nodes[0].Kind)
	}
	if nodes[1].Kind != document.BlockCode {
		t.Errorf("second = %v, want code block", nodes[1].Kind)
	}
}

func TestInsertRawFinishesOpenBlock(t *testing.T) {
	d := New()
	must(t, d.InsertInline("before"))
	must(t, d.InsertRaw("<hr>"))
	must(t, d.InsertInline("after"))

	nodes := d.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3: %v", len(nodes), kinds(nodes))
	}
	if nodes[1].Kind != document.BlockRule {
		t.Errorf("middle = %v", nodes[1].Kind)
	}
}

func TestInsertDiagram(t *testing.T) {
	d := New()
	if err := d.InsertDiagram("mermaid", " "); err == nil {
		t.Error("empty definition: expected error")
	}
	must(t, d.InsertDiagram("mermaid", "graph TD; a-->b"))

	nodes := d.Nodes()
	if len(nodes) != 1 || nodes[0].Kind != document.BlockDiagram {
		t.Fatalf("nodes = %v", kinds(nodes))
	}
	md := d.ExportMarkdown()
	if !strings.Contains(md, "```mermaid\ngraph TD; a-->b\n```") {
		t.Errorf("export = %q", md)
	}
}

func TestTagWrites(t *testing.T) {
	d := New()
	must(t, d.InsertInline("untagged"))
	must(t, d.InsertParagraphBreak())

	d.TagWrites("session-1")
	must(t, d.InsertInline("tagged"))
	must(t, d.InsertParagraphBreak())
	must(t, d.ToggleList(document.ListBullet))
	must(t, d.InsertInline("item"))
	d.TagWrites("")

	ids := d.NodesByTag("session-1")
	if len(ids) != 2 {
		t.Fatalf("got %d tagged nodes, want 2", len(ids))
	}
	if got := d.NodesByTag(""); got != nil {
		t.Errorf("empty tag lookup = %v, want nil", got)
	}

	for _, id := range ids {
		must(t, d.StripTag(id))
	}
	if left := d.NodesByTag("session-1"); left != nil {
		t.Errorf("tags left after strip: %v", left)
	}
}

func TestStripTagFreshMarker(t *testing.T) {
	d := New(WithFreshMarker(20 * time.Millisecond))
	d.TagWrites("s")
	must(t, d.InsertInline("x"))
	d.TagWrites("")

	ids := d.NodesByTag("s")
	if len(ids) != 1 {
		t.Fatalf("got %d tagged nodes, want 1", len(ids))
	}
	must(t, d.StripTag(ids[0]))
	if !d.Nodes()[0].Fresh {
		t.Fatal("node not marked fresh after strip")
	}

	deadline := time.Now().Add(2 * time.Second)
	for d.Nodes()[0].Fresh {
		if time.Now().After(deadline) {
			t.Fatal("fresh marker never cleared")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStripTagUnknownNode(t *testing.T) {
	d := New()
	if err := d.StripTag(42); err == nil {
		t.Error("expected error for unknown node")
	}
}

func TestRemoveNode(t *testing.T) {
	d := New()
	d.TagWrites("s")
	must(t, d.InsertInline("a"))
	must(t, d.InsertParagraphBreak())
	must(t, d.InsertInline("b"))
	must(t, d.InsertParagraphBreak())
	d.TagWrites("")

	ids := d.NodesByTag("s")
	for _, id := range ids {
		must(t, d.RemoveNode(id))
	}
	if d.Len() != 0 {
		t.Errorf("got %d nodes after removal, want 0", d.Len())
	}
	if err := d.RemoveNode(999); err == nil {
		t.Error("expected error for unknown node")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := New()
	must(t, d.SetBlockType(document.BlockHeading, 1))
	must(t, d.InsertInline("Before"))
	must(t, d.InsertParagraphBreak())

	snap := d.Serialize()
	before := snap.Markdown()

	must(t, d.InsertInline("extra content"))
	must(t, d.InsertParagraphBreak())
	must(t, d.InsertRaw("<hr>"))
	if d.ExportMarkdown() == before {
		t.Fatal("writes after snapshot did not change the document")
	}

	must(t, d.Replace(snap, true))
	if got := d.ExportMarkdown(); got != before {
		t.Errorf("after restore = %q, want %q", got, before)
	}
}

func TestReplaceSilent(t *testing.T) {
	changes := 0
	d := New(WithOnChange(func() { changes++ }))
	must(t, d.InsertInline("x"))
	snap := d.Serialize()

	n := changes
	must(t, d.Replace(snap, true))
	if changes != n {
		t.Errorf("silent replace fired onChange (%d -> %d)", n, changes)
	}
	must(t, d.Replace(snap, false))
	if changes != n+1 {
		t.Errorf("loud replace: changes = %d, want %d", changes, n+1)
	}
}

func TestReplaceForeignSnapshot(t *testing.T) {
	a := New()
	b := New()
	snap := a.Serialize()
	if err := b.Replace(snap, true); !errors.Is(err, ErrForeignSnapshot) {
		t.Errorf("err = %v, want ErrForeignSnapshot", err)
	}
}

func TestExportMarkdown(t *testing.T) {
	d := New()
	must(t, d.SetBlockType(document.BlockHeading, 2))
	must(t, d.InsertInline("Plan"))
	must(t, d.InsertParagraphBreak())
	must(t, d.ToggleList(document.ListBullet))
	must(t, d.InsertInline("first"))
	must(t, d.SplitListItem())
	must(t, d.InsertInline("second"))
	must(t, d.ToggleList(document.ListOrdered))
	must(t, d.InsertInline("step one"))
	must(t, d.SplitListItem())
	must(t, d.InsertInline("step two"))
	must(t, d.InsertParagraphBreak())
	must(t, d.SetBlockType(document.BlockQuote, 0))
	must(t, d.InsertInline("quoted"))
	must(t, d.InsertParagraphBreak())
	must(t, d.InsertInline("closing <strong>words</strong>"))
	must(t, d.InsertParagraphBreak())

	want := strings.Join([]string{
		"## Plan",
		"",
		"- first",
		"- second",
		"",
		"1. step one",
		"2. step two",
		"",
		"> quoted",
		"",
		"closing **words**",
		"",
	}, "\n")
	if got := d.ExportMarkdown(); got != want {
		t.Errorf("export = %q, want %q", got, want)
	}
}

func TestExportCodeBlockRoundTrip(t *testing.T) {
	d := New()
	must(t, d.InsertRaw(`<pre><code class="language-go">fmt.Println(&#34;hi&#34;)</code></pre>`))

	md := d.ExportMarkdown()
	if !strings.Contains(md, "```go\nfmt.Println(\"hi\")\n```") {
		t.Errorf("export = %q", md)
	}
}

func TestInlineToMarkdown(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"<strong>b</strong>", "**b**"},
		{"<em>i</em>", "*i*"},
		{"<code>x</code>", "`x`"},
		{`<a href="https://example.com">site</a>`, "[site](https://example.com)"},
		{"mix <strong>b</strong> and <em>i</em>", "mix **b** and *i*"},
	}
	for _, tc := range cases {
		if got := inlineToMarkdown(tc.in); got != tc.want {
			t.Errorf("inlineToMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExportHTML(t *testing.T) {
	d := New()
	must(t, d.SetBlockType(document.BlockHeading, 1))
	must(t, d.InsertInline("T"))
	must(t, d.InsertParagraphBreak())

	out, err := d.ExportHTML()
	must(t, err)
	if !strings.Contains(out, "<h1>T</h1>") {
		t.Errorf("html = %q", out)
	}
}
