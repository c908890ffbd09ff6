// Package persona holds the records the classifier is trained on: a subject's personality label and the
// ordered list of their posts.
//
// A Collection owns an ordered set of records and implements the transformations the preparation pipes rely
// on. Chunking splits every subject into records of a fixed number of posts and drops the remainder. Balancing
// truncates the larger label group to the size of the smaller one before shuffling. Normalisation rewrites
// posts with regular expressions. Every transformation mutates the collection in place and never changes a
// record's label.
package persona
