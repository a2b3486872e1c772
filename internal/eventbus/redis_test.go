package eventbus

import "testing"

func TestStreamKeyStableForSameDocID(t *testing.T) {
	b := &RedisBus{}
	k1 := b.streamKey(TopicFetched, "42")
	k2 := b.streamKey(TopicFetched, "42")
	if k1 != k2 {
		t.Fatalf("streamKey not stable: %q != %q", k1, k2)
	}
}

func TestStreamKeyPartitionsAcrossDocIDs(t *testing.T) {
	b := &RedisBus{}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		k := b.streamKey(TopicDiscovered, docIDFor(i))
		seen[k] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected doc_ids to spread across multiple partitions, got %d distinct keys", len(seen))
	}
}

func docIDFor(i int) string {
	return string(rune('a'+i%26)) + string(rune('0'+i%10))
}
