package persona

import (
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	DigitToken = "$digit"
	LinkToken  = "$link"
)

var (
	digitPattern           = regexp.MustCompile(`\S*\d\S*`)
	linkPattern            = regexp.MustCompile(`\S*www\.[a-z|\-]{2,}\.[a-z]{2,}\S*`)
	personalityCodePattern = regexp.MustCompile(personalityCodeExpr())
)

// ErrSplitSize is returned when a split would leave the train or the test side empty.
var ErrSplitSize = errors.New("not enough records to split")

// PersonalityCodes returns the 16 four letter type codes, i/e first, j/p last.
func PersonalityCodes() []string {
	axes := [][2]byte{{'i', 'e'}, {'n', 's'}, {'t', 'f'}, {'j', 'p'}}
	codes := []string{""}
	for _, axis := range axes {
		next := make([]string, 0, len(codes)*2)
		for _, prefix := range codes {
			next = append(next, prefix+string(axis[0]), prefix+string(axis[1]))
		}
		codes = next
	}
	return codes
}

func personalityCodeExpr() string {
	codes := PersonalityCodes()
	alts := make([]string, len(codes))
	for i, code := range codes {
		alts[i] = `\S*` + code + `\S*`
	}
	return strings.Join(alts, "|")
}

// Collection is the ordered working set of records shared by the preparation pipes.
type Collection struct {
	labels  LabelSet
	Records []*Record
}

// NewCollection wraps records. The slice is owned by the collection from now on.
func NewCollection(labels LabelSet, records []*Record) *Collection {
	return &Collection{labels: labels, Records: records}
}

// Labels returns the label set of the collection.
func (c *Collection) Labels() LabelSet {
	return c.labels
}

func (c *Collection) Len() int {
	return len(c.Records)
}

// Personalities returns the label of every record, in order.
func (c *Collection) Personalities() []Label {
	res := make([]Label, len(c.Records))
	for i, r := range c.Records {
		res[i] = r.Personality()
	}
	return res
}

// Posts returns the posts of every record, in order.
func (c *Collection) Posts() [][]string {
	res := make([][]string, len(c.Records))
	for i, r := range c.Records {
		res[i] = r.Posts
	}
	return res
}

// Counts returns the number of records per label.
func (c *Collection) Counts() map[Label]int {
	res := make(map[Label]int, 2)
	for _, r := range c.Records {
		res[r.Personality()]++
	}
	return res
}

// SplitPosts replaces every record by records of exactly chunkSize consecutive posts.
// A trailing chunk shorter than chunkSize is dropped; the number of dropped posts is returned.
func (c *Collection) SplitPosts(chunkSize int) (int, error) {
	if chunkSize <= 0 {
		return 0, ErrChunkSize
	}
	var (
		records []*Record
		ignored int
	)
	for _, r := range c.Records {
		for start := 0; start < len(r.Posts); start += chunkSize {
			end := start + chunkSize
			if end > len(r.Posts) {
				ignored += len(r.Posts) - start
				break
			}
			chunk := make([]string, chunkSize)
			copy(chunk, r.Posts[start:end])
			records = append(records, &Record{personality: r.personality, Posts: chunk})
		}
	}
	c.Records = records
	return ignored, nil
}

// EvenlyDistribute keeps as many records of each label as the smallest label group has, then shuffles.
// The larger group keeps its first records in current order. It reports whether a group was truncated.
// A record labelled outside the label set is a ValidationError and leaves the collection untouched.
// A nil rng uses the global source.
func (c *Collection) EvenlyDistribute(rng *rand.Rand) (bool, error) {
	var first, second []*Record
	for _, r := range c.Records {
		switch r.Personality() {
		case c.labels.First:
			first = append(first, r)
		case c.labels.Second:
			second = append(second, r)
		default:
			return false, &ValidationError{Code: string(r.Personality()), Labels: c.labels}
		}
	}
	truncated := true
	switch {
	case len(first) > len(second):
		c.Records = append(second, first[:len(second)]...)
	case len(first) < len(second):
		c.Records = append(first, second[:len(first)]...)
	default:
		c.Records = append(first, second...)
		truncated = false
	}
	shuffle(rng, c.Records)
	return truncated, nil
}

// ReplacePattern substitutes every match of pattern in every post. The replacement is literal.
func (c *Collection) ReplacePattern(pattern *regexp.Regexp, replacement string) {
	for _, r := range c.Records {
		for i, post := range r.Posts {
			r.Posts[i] = pattern.ReplaceAllLiteralString(post, replacement)
		}
	}
}

// ReplaceDigits masks every token holding a digit.
func (c *Collection) ReplaceDigits() {
	c.ReplacePattern(digitPattern, DigitToken)
}

// ReplaceLinks masks every token holding a www link.
func (c *Collection) ReplaceLinks() {
	c.ReplacePattern(linkPattern, LinkToken)
}

// ReplacePersonalityCodes deletes every token holding a personality type code, so that labels cannot leak
// through the posts.
func (c *Collection) ReplacePersonalityCodes() {
	c.ReplacePattern(personalityCodePattern, "")
}

// Split partitions the collection into a train and a test collection, stratified on the labels.
// The test side holds ceil(testSize*n) records, allocated to labels by largest remainder.
func (c *Collection) Split(testSize float64, rng *rand.Rand) (*Collection, *Collection, error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, ErrTestSize
	}
	total := len(c.Records)
	nTest := int(math.Ceil(testSize * float64(total)))
	if nTest == 0 || nTest >= total {
		return nil, nil, errors.Wrapf(ErrSplitSize, "%d records, test size %v", total, testSize)
	}

	var order []Label
	groups := make(map[Label][]*Record)
	for _, r := range c.Records {
		if _, ok := groups[r.Personality()]; !ok {
			order = append(order, r.Personality())
		}
		groups[r.Personality()] = append(groups[r.Personality()], r)
	}

	allocation := allocate(order, groups, nTest, total)
	var train, test []*Record
	for _, lbl := range order {
		group := make([]*Record, len(groups[lbl]))
		copy(group, groups[lbl])
		shuffle(rng, group)
		test = append(test, group[:allocation[lbl]]...)
		train = append(train, group[allocation[lbl]:]...)
	}
	shuffle(rng, train)
	shuffle(rng, test)

	return NewCollection(c.labels, train), NewCollection(c.labels, test), nil
}

func allocate(order []Label, groups map[Label][]*Record, nTest, total int) map[Label]int {
	type remainder struct {
		label Label
		frac  float64
		idx   int
	}
	res := make(map[Label]int, len(order))
	rems := make([]remainder, 0, len(order))
	assigned := 0
	for i, lbl := range order {
		exact := float64(nTest) * float64(len(groups[lbl])) / float64(total)
		res[lbl] = int(math.Floor(exact))
		assigned += res[lbl]
		rems = append(rems, remainder{label: lbl, frac: exact - math.Floor(exact), idx: i})
	}
	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})
	for i := 0; assigned < nTest && i < len(rems); i++ {
		if res[rems[i].label] < len(groups[rems[i].label]) {
			res[rems[i].label]++
			assigned++
		}
	}
	return res
}

func shuffle(rng *rand.Rand, records []*Record) {
	swap := func(i, j int) {
		records[i], records[j] = records[j], records[i]
	}
	if rng == nil {
		rand.Shuffle(len(records), swap)
		return
	}
	rng.Shuffle(len(records), swap)
}
