package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blametrail/blametrail/engine/enginetest"
	"github.com/blametrail/blametrail/gitx"
)

func testRepo() *enginetest.Repo {
	return enginetest.NewRepo().
		Add("c1", enginetest.Commit{Files: map[string]string{
			"f.txt": "one\ntwo\nthree\n",
		}}).
		Add("c2", enginetest.Commit{Parents: []gitx.Hash{"c1"}, Files: map[string]string{
			"f.txt": "one\ntwo changed\nthree\n",
		}}).
		Add("c3", enginetest.Commit{Parents: []gitx.Hash{"c2"}, Files: map[string]string{
			"f.txt": "one changed\ntwo changed\nthree\n",
		}})
}

// waitComplete drains subscription wakeups until the annotation is
// complete or the test times out.
func waitComplete(t *testing.T, c *Cache, tree gitx.Hash, path string, sub *Sub) AnnotationSnapshot {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		snap, ok := c.Annotation(tree, path)
		require.True(t, ok)
		if snap.Complete || snap.Err != nil {
			return snap
		}
		select {
		case <-sub.Ready():
		case <-deadline:
			t.Fatal("annotation did not complete in time")
		}
	}
}

func TestCacheAnnotationCompletes(t *testing.T) {
	repo := testRepo()
	c := NewCache(repo, 2)
	defer c.Close()

	snap, sub := c.GetOrStart("c3", "f.txt")
	assert.False(t, snap.Complete) // immediate snapshot, walk still running

	snap = waitComplete(t, c, "c3", "f.txt", sub)
	require.NoError(t, snap.Err)
	assert.Equal(t, 3, snap.LineCount)
	assert.Equal(t, map[int]gitx.Hash{1: "c3", 2: "c2", 3: "c1"}, snap.Lines)
}

func TestCacheSharesOneWalkPerKey(t *testing.T) {
	// Baseline: the blob reads one solo walk performs.
	baseRepo := testRepo()
	base := NewCache(baseRepo, 1)
	_, baseSub := base.GetOrStart("c3", "f.txt")
	waitComplete(t, base, "c3", "f.txt", baseSub)
	base.Close()
	soloReads := baseRepo.BlobReads["c3:f.txt"]
	require.Greater(t, soloReads, 0)

	// Two concurrent requests for the same key must share one walk:
	// the second attaches to the in-flight computation instead of
	// starting another, so the read count matches the solo run.
	repo := testRepo()
	c := NewCache(repo, 4)
	defer c.Close()

	_, sub1 := c.GetOrStart("c3", "f.txt")
	_, sub2 := c.GetOrStart("c3", "f.txt")

	s1 := waitComplete(t, c, "c3", "f.txt", sub1)
	s2 := waitComplete(t, c, "c3", "f.txt", sub2)

	require.NoError(t, s1.Err)
	assert.Equal(t, s1.Lines, s2.Lines)
	assert.Equal(t, soloReads, repo.BlobReads["c3:f.txt"])
}

func TestCacheSnapshotIsolation(t *testing.T) {
	repo := testRepo()
	c := NewCache(repo, 1)
	defer c.Close()

	_, sub := c.GetOrStart("c3", "f.txt")
	snap := waitComplete(t, c, "c3", "f.txt", sub)

	// Mutating a snapshot must not leak back into the cache.
	snap.Lines[1] = "bogus"
	again, ok := c.Annotation("c3", "f.txt")
	require.True(t, ok)
	assert.Equal(t, gitx.Hash("c3"), again.Lines[1])
}

func TestCacheHistoryChain(t *testing.T) {
	repo := testRepo()
	c := NewCache(repo, 2)
	defer c.Close()

	snap, sub := c.GetOrStartHistory("c3", 1, "f.txt")
	deadline := time.After(5 * time.Second)
	for !snap.Complete && snap.Err == nil {
		select {
		case <-sub.Ready():
		case <-deadline:
			t.Fatal("history did not complete in time")
		}
		snap, _ = c.GetOrStartHistory("c3", 1, "f.txt")
	}
	require.NoError(t, snap.Err)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, gitx.Hash("c3"), snap.Entries[0].Commit)
	assert.Equal(t, gitx.Hash("c1"), snap.Entries[1].Commit)
	assert.True(t, snap.Entries[1].Final)
}

func TestCacheFailedKeyDoesNotPoisonOthers(t *testing.T) {
	repo := testRepo()
	c := NewCache(repo, 2)
	defer c.Close()

	_, badSub := c.GetOrStart("c3", "missing.txt")
	bad := waitComplete(t, c, "c3", "missing.txt", badSub)
	assert.Error(t, bad.Err)
	assert.True(t, gitx.IsNotFound(bad.Err))

	_, goodSub := c.GetOrStart("c3", "f.txt")
	good := waitComplete(t, c, "c3", "f.txt", goodSub)
	assert.NoError(t, good.Err)
	assert.True(t, good.Complete)
}

func TestCacheSubscriberWakesAfterCompletion(t *testing.T) {
	repo := testRepo()
	c := NewCache(repo, 1)
	defer c.Close()

	_, sub := c.GetOrStart("c3", "f.txt")
	waitComplete(t, c, "c3", "f.txt", sub)

	// A subscriber attaching after the walk finished still gets a
	// wakeup so it never sleeps on a completed key.
	_, late := c.GetOrStart("c3", "f.txt")
	select {
	case <-late.Ready():
	case <-time.After(time.Second):
		t.Fatal("late subscriber never woke")
	}
}
