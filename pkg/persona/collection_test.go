package persona_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/hatstall/pkg/persona"
)

func newRecord(t *testing.T, code string, posts ...string) *persona.Record {
	t.Helper()
	rec, err := persona.DefaultLabels.NewRecord(code, posts)
	require.NoError(t, err)
	return rec
}

func numberedPosts(prefix string, total int) []string {
	res := make([]string, total)
	for i := range res {
		res[i] = fmt.Sprintf("%s-%d", prefix, i)
	}
	return res
}

func TestSplitPosts(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		posts     int
		chunkSize int
	}{
		"exact multiple":   {posts: 20, chunkSize: 10},
		"with remainder":   {posts: 23, chunkSize: 10},
		"smaller than one": {posts: 7, chunkSize: 10},
		"chunk of one":     {posts: 5, chunkSize: 1},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			coll := persona.NewCollection(persona.DefaultLabels, []*persona.Record{
				newRecord(t, "E", numberedPosts("e", tc.posts)...),
			})
			ignored, err := coll.SplitPosts(tc.chunkSize)
			require.NoError(t, err)

			assert.Equal(t, tc.posts%tc.chunkSize, ignored)
			require.Len(t, coll.Records, tc.posts/tc.chunkSize)
			for i, rec := range coll.Records {
				assert.Len(t, rec.Posts, tc.chunkSize)
				assert.Equal(t, persona.DefaultLabels.Second, rec.Personality())
				assert.Equal(t, fmt.Sprintf("e-%d", i*tc.chunkSize), rec.Posts[0])
			}
		})
	}
}

func TestSplitPostsKeepsSubjectOrder(t *testing.T) {
	t.Parallel()

	coll := persona.NewCollection(persona.DefaultLabels, []*persona.Record{
		newRecord(t, "I", numberedPosts("a", 5)...),
		newRecord(t, "E", numberedPosts("b", 4)...),
	})
	ignored, err := coll.SplitPosts(2)
	require.NoError(t, err)
	assert.Equal(t, 1, ignored)

	got := make([]string, 0, coll.Len())
	for _, rec := range coll.Records {
		got = append(got, rec.Posts[0])
	}
	assert.Equal(t, []string{"a-0", "a-2", "b-0", "b-2"}, got)
	assert.Equal(t, []persona.Label{"Introvert", "Introvert", "Extrovert", "Extrovert"}, coll.Personalities())
}

func TestSplitPostsInvalidChunk(t *testing.T) {
	t.Parallel()

	coll := persona.NewCollection(persona.DefaultLabels, nil)
	_, err := coll.SplitPosts(0)
	assert.ErrorIs(t, err, persona.ErrChunkSize)
}

func TestEvenlyDistribute(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		introverts, extroverts int
		truncated              bool
	}{
		"more introverts": {introverts: 5, extroverts: 2, truncated: true},
		"more extroverts": {introverts: 1, extroverts: 4, truncated: true},
		"already even":    {introverts: 3, extroverts: 3},
		"one side empty":  {introverts: 3, extroverts: 0, truncated: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var records []*persona.Record
			for i := 0; i < tc.introverts; i++ {
				records = append(records, newRecord(t, "I", fmt.Sprintf("i-%d", i)))
			}
			for i := 0; i < tc.extroverts; i++ {
				records = append(records, newRecord(t, "E", fmt.Sprintf("e-%d", i)))
			}
			coll := persona.NewCollection(persona.DefaultLabels, records)

			truncated, err := coll.EvenlyDistribute(rand.New(rand.NewSource(123)))
			require.NoError(t, err)
			assert.Equal(t, tc.truncated, truncated)

			m := tc.introverts
			if tc.extroverts < m {
				m = tc.extroverts
			}
			counts := coll.Counts()
			assert.Equal(t, m, counts[persona.DefaultLabels.First])
			assert.Equal(t, m, counts[persona.DefaultLabels.Second])

			// the larger group keeps its first m members
			got := make([]string, 0, coll.Len())
			for _, rec := range coll.Records {
				got = append(got, rec.Posts[0])
			}
			expected := make([]string, 0, 2*m)
			for i := 0; i < m; i++ {
				expected = append(expected, fmt.Sprintf("i-%d", i), fmt.Sprintf("e-%d", i))
			}
			assert.ElementsMatch(t, expected, got)
		})
	}
}

func TestEvenlyDistributeForeignLabel(t *testing.T) {
	t.Parallel()

	labels := persona.LabelSet{First: "Thinker", Second: "Feeler"}
	thinker, err := labels.NewRecord("T", []string{"logic"})
	require.NoError(t, err)
	records := []*persona.Record{newRecord(t, "I", "quiet"), thinker, newRecord(t, "E", "loud")}
	coll := persona.NewCollection(persona.DefaultLabels, records)

	_, err = coll.EvenlyDistribute(rand.New(rand.NewSource(1)))
	var invalid *persona.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Thinker", invalid.Code)
	assert.Equal(t, records, coll.Records)
}

func TestReplaceDigits(t *testing.T) {
	t.Parallel()

	coll := persona.NewCollection(persona.DefaultLabels, []*persona.Record{
		newRecord(t, "I", "a1 post", "no numbers", "call 555-1234 now", "2nd"),
	})
	coll.ReplaceDigits()
	assert.Equal(t, []string{"$digit post", "no numbers", "call $digit now", "$digit"}, coll.Records[0].Posts)
}

func TestReplaceLinks(t *testing.T) {
	t.Parallel()

	coll := persona.NewCollection(persona.DefaultLabels, []*persona.Record{
		newRecord(t, "I", "see http://www.youtube.com/watch?v=x now", "www.example.com link", "www.a.co", "no link"),
	})
	coll.ReplaceLinks()
	assert.Equal(t, []string{"see $link now", "$link link", "www.a.co", "no link"}, coll.Records[0].Posts)
}

func TestReplacePersonalityCodes(t *testing.T) {
	t.Parallel()

	coll := persona.NewCollection(persona.DefaultLabels, []*persona.Record{
		newRecord(t, "I", "as an intj i think", "#entp-life rocks", "INTJ upper", "nothing"),
	})
	coll.ReplacePersonalityCodes()
	assert.Equal(t, []string{"as an  i think", " rocks", "INTJ upper", "nothing"}, coll.Records[0].Posts)
}

func TestPersonalityCodes(t *testing.T) {
	t.Parallel()

	codes := persona.PersonalityCodes()
	require.Len(t, codes, 16)
	assert.Equal(t, "intj", codes[0])
	assert.Equal(t, "esfp", codes[15])
}

func TestNormalisationIsIdempotent(t *testing.T) {
	t.Parallel()

	posts := []string{"a1 post", "www.example.com link", "intj code", "2 www.test.org isfp", "plain"}
	steps := map[string]func(*persona.Collection){
		"digits":            (*persona.Collection).ReplaceDigits,
		"links":             (*persona.Collection).ReplaceLinks,
		"personality codes": (*persona.Collection).ReplacePersonalityCodes,
	}

	for name, step := range steps {
		step := step
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			coll := persona.NewCollection(persona.DefaultLabels, []*persona.Record{
				newRecord(t, "I", append([]string(nil), posts...)...),
			})
			step(coll)
			once := append([]string(nil), coll.Records[0].Posts...)
			step(coll)
			assert.Equal(t, once, coll.Records[0].Posts)
		})
	}
}

func TestNormaliseAndBalanceScenario(t *testing.T) {
	t.Parallel()

	first := newRecord(t, "I", "a1", "www.example.com", "intj")
	second := newRecord(t, "E", "one", "two")
	coll := persona.NewCollection(persona.DefaultLabels, []*persona.Record{first, second})

	coll.ReplacePersonalityCodes()
	coll.ReplaceLinks()
	coll.ReplaceDigits()
	assert.Equal(t, []string{"$digit", "$link", ""}, first.Posts)
	assert.Equal(t, []string{"one", "two"}, second.Posts)

	truncated, err := coll.EvenlyDistribute(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.ElementsMatch(t, []*persona.Record{first, second}, coll.Records)
	assert.Equal(t, persona.DefaultLabels.First, first.Personality())
	assert.Equal(t, persona.DefaultLabels.Second, second.Personality())
}

func TestSplit(t *testing.T) {
	t.Parallel()

	var records []*persona.Record
	for i := 0; i < 14; i++ {
		records = append(records, newRecord(t, "I", fmt.Sprintf("i-%d", i)))
	}
	for i := 0; i < 6; i++ {
		records = append(records, newRecord(t, "E", fmt.Sprintf("e-%d", i)))
	}
	coll := persona.NewCollection(persona.DefaultLabels, records)

	train, test, err := coll.Split(0.3, rand.New(rand.NewSource(123)))
	require.NoError(t, err)
	assert.Equal(t, 14, train.Len())
	assert.Equal(t, 6, test.Len())
	assert.Equal(t, map[persona.Label]int{"Introvert": 4, "Extrovert": 2}, test.Counts())
	assert.Equal(t, map[persona.Label]int{"Introvert": 10, "Extrovert": 4}, train.Counts())
	assert.ElementsMatch(t, records, append(append([]*persona.Record(nil), train.Records...), test.Records...))

	again, _, err := coll.Split(0.3, rand.New(rand.NewSource(123)))
	require.NoError(t, err)
	assert.Equal(t, train.Records, again.Records)
}

func TestSplitErrors(t *testing.T) {
	t.Parallel()

	coll := persona.NewCollection(persona.DefaultLabels, []*persona.Record{newRecord(t, "I", "a")})
	_, _, err := coll.Split(1.5, nil)
	assert.ErrorIs(t, err, persona.ErrTestSize)

	_, _, err = coll.Split(0.3, nil)
	assert.ErrorIs(t, err, persona.ErrSplitSize)
}
