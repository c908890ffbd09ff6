package pipes

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

type csvLoader struct {
	pipeline.Base
	name   string
	path   string
	labels persona.LabelSet
	header bool
	// withNames writes the identifier column to names.
	withNames bool
	logger    *zap.Logger
	load      func(l *csvLoader, row []string) error

	persons []*persona.Record
	names   []string
}

func (l *csvLoader) Name() string { return l.name }

func (l *csvLoader) Run(ctx context.Context) error {
	file, err := os.Open(l.path)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", l.path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	if l.header {
		_, err := reader.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return errors.Wrapf(err, "unable to read header of %s", l.path)
		}
	}

	l.persons, l.names = nil, nil
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "loading interrupted")
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "unable to read %s", l.path)
		}
		if len(row) < 2 {
			line, _ := reader.FieldPos(0)
			return errors.Wrapf(ErrMalformedRow, "%s:%d: expected 2 columns, got %d", l.path, line, len(row))
		}
		err = l.load(l, row)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return errors.Wrapf(err, "%s:%d", l.path, line)
		}
	}
	l.logger.Info("loaded records", zap.String("path", l.path), zap.Int("records", len(l.persons)))

	pipeline.Set(l.Payload, pipeline.LabelsKey, l.labels)
	pipeline.Set(l.Payload, pipeline.PersonsKey, l.persons)
	if l.withNames {
		pipeline.Set(l.Payload, pipeline.NamesKey, l.names)
	}

	return nil
}

// unquote drops the first and last character of the posts column of the training export.
func unquote(s string) string {
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}

// PersonalityPostLoader reads the labelled export at path: a header line, then rows of a personality
// code and the quoted posts joined by "|||". Rows without the delimiter are skipped and posts are
// lowercased. It writes persons.
func PersonalityPostLoader(path string, labels persona.LabelSet, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &csvLoader{
			Base:   pipeline.Base{Payload: payload, Nickname: nickname},
			name:   "PersonalityPostLoader",
			path:   path,
			labels: labels,
			header: true,
			logger: orNop(logger),
			load: func(l *csvLoader, row []string) error {
				posts := unquote(row[1])
				if !strings.Contains(posts, persona.PostDelimiter) {
					return nil
				}
				record, err := l.labels.ParseRecord(row[0], strings.ToLower(posts))
				if err != nil {
					return err
				}
				l.persons = append(l.persons, record)
				return nil
			},
		}
	}
}

// PredictionDataLoader reads the unlabelled file at path: rows of an identifier and the posts joined by
// "|||", without header. Records get the first label as a placeholder. It writes persons and names.
func PredictionDataLoader(path string, labels persona.LabelSet, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &csvLoader{
			Base:      pipeline.Base{Payload: payload, Nickname: nickname},
			name:      "PredictionDataLoader",
			path:      path,
			labels:    labels,
			withNames: true,
			logger:    orNop(logger),
			load: func(l *csvLoader, row []string) error {
				if !strings.Contains(row[1], persona.PostDelimiter) {
					return nil
				}
				record, err := l.labels.ParseRecord(l.labels.First.Code(), strings.ToLower(row[1]))
				if err != nil {
					return err
				}
				l.persons = append(l.persons, record)
				l.names = append(l.names, row[0])
				return nil
			},
		}
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
