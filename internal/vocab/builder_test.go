package vocab_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"corpusprep/internal/jobs"
	"corpusprep/internal/textutil"
	"corpusprep/internal/vocab"
)

type buildEnv struct {
	dir      string
	corpus   string
	vocab    string
	training string
}

func newBuildEnv(t *testing.T, corpus string) buildEnv {
	t.Helper()
	dir := t.TempDir()
	env := buildEnv{
		dir:      dir,
		corpus:   filepath.Join(dir, "corpus.txt"),
		vocab:    filepath.Join(dir, "vocab.txt"),
		training: filepath.Join(dir, "train_topic.csv"),
	}
	if err := os.WriteFile(env.corpus, []byte(corpus), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return env
}

func (e buildEnv) build(t *testing.T, maxSize int) vocab.Summary {
	t.Helper()
	summary, err := vocab.Build(context.Background(), vocab.Options{
		CorpusPath:   e.corpus,
		VocabPath:    e.vocab,
		TrainingPath: e.training,
		MaxSize:      maxSize,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return summary
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestBuildWorkedExample(t *testing.T) {
	env := newBuildEnv(t, "the cat sat\na dog ran\ncat cat dog\n")
	summary := env.build(t, 10)

	wantVocab := "0 cat 3\n1 dog 2\n3 ran 1\n2 sat 1\n"
	if got := readFile(t, env.vocab); got != wantVocab {
		t.Fatalf("vocab.txt = %q, want %q", got, wantVocab)
	}
	wantRows := "1 0 0 1\n0 1 1 0\n2 1 0 0\n"
	if got := readFile(t, env.training); got != wantRows {
		t.Fatalf("train_topic.csv = %q, want %q", got, wantRows)
	}

	if summary.VocabSize != 4 || summary.DistinctTerms != 4 {
		t.Fatalf("unexpected sizes: %+v", summary)
	}
	if summary.Lines != 3 || summary.Rows != 3 || summary.DroppedRows != 0 || summary.SkippedMarkup != 0 {
		t.Fatalf("unexpected counters: %+v", summary)
	}
	if col, ok := summary.Vocabulary.Column("ran"); !ok || col != 2 {
		t.Fatalf("Column(ran) = %d, %v", col, ok)
	}
}

func TestBuildSkipsMarkupInBothPasses(t *testing.T) {
	env := newBuildEnv(t, "<doc id=\"1\">\nzebra zebra\n<title>zebra</title>\nlion\n</doc>\n")
	summary := env.build(t, 10)

	if got := readFile(t, env.vocab); got != "1 lion 1\n0 zebra 2\n" {
		t.Fatalf("vocab.txt = %q", got)
	}
	if got := readFile(t, env.training); got != "0 2\n1 0\n" {
		t.Fatalf("train_topic.csv = %q", got)
	}
	if summary.SkippedMarkup != 3 {
		t.Fatalf("SkippedMarkup = %d, want 3", summary.SkippedMarkup)
	}
	if summary.Lines != 5 {
		t.Fatalf("Lines = %d, want 5", summary.Lines)
	}
}

func TestBuildDropsDocumentsWithoutVocabularyHits(t *testing.T) {
	corpus := "alpha alpha beta\nthe of and\n123 456\n\ngamma\nbeta\n"
	env := newBuildEnv(t, corpus)
	summary := env.build(t, 2)

	if got := readFile(t, env.vocab); got != "0 alpha 2\n1 beta 2\n" {
		t.Fatalf("vocab.txt = %q", got)
	}
	if got := readFile(t, env.training); got != "2 1\n0 1\n" {
		t.Fatalf("train_topic.csv = %q", got)
	}
	if summary.Rows != 2 || summary.DroppedRows != 4 {
		t.Fatalf("Rows=%d DroppedRows=%d", summary.Rows, summary.DroppedRows)
	}
	if summary.DistinctTerms != 3 || summary.VocabSize != 2 {
		t.Fatalf("DistinctTerms=%d VocabSize=%d", summary.DistinctTerms, summary.VocabSize)
	}
}

func TestBuildTieBreakFollowsFirstAppearance(t *testing.T) {
	env := newBuildEnv(t, "pear apple fig\nfig apple pear\n")
	env.build(t, 2)

	// All three tie at 2; pear and apple were seen first.
	if got := readFile(t, env.vocab); got != "1 apple 2\n0 pear 2\n" {
		t.Fatalf("vocab.txt = %q", got)
	}
}

func TestBuildHonoursRequestedAndHardCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < vocab.MaxSize+250; i++ {
		b.WriteString(alphaName(i))
		b.WriteByte(' ')
		if i%20 == 19 {
			b.WriteByte('\n')
		}
	}
	env := newBuildEnv(t, b.String()+"\n")

	small := env.build(t, 50)
	if small.VocabSize != 50 {
		t.Fatalf("VocabSize = %d, want 50", small.VocabSize)
	}

	capped := env.build(t, 100000)
	if capped.VocabSize != vocab.MaxSize {
		t.Fatalf("VocabSize = %d, want hard cap %d", capped.VocabSize, vocab.MaxSize)
	}
	if capped.DistinctTerms != vocab.MaxSize+250 {
		t.Fatalf("DistinctTerms = %d", capped.DistinctTerms)
	}
	assertVocabularyProperties(t, env, capped)
}

func TestBuildProperties(t *testing.T) {
	corpus := strings.Join([]string{
		"The quick brown fox jumps over the lazy dog",
		"A dog is not a fox, but a fox is quick.",
		"<p>markup line with dog</p>",
		"Numbers like 42 and words like forty two",
		"   ",
		"lazy  lazy   LAZY dog",
		"café au lait",
		"fox",
	}, "\n")
	env := newBuildEnv(t, corpus)
	summary := env.build(t, 8)
	if summary.VocabSize > 8 {
		t.Fatalf("VocabSize %d exceeds requested 8", summary.VocabSize)
	}
	assertVocabularyProperties(t, env, summary)
}

func assertVocabularyProperties(t *testing.T, env buildEnv, summary vocab.Summary) {
	t.Helper()
	vocabLines := strings.Split(strings.TrimSuffix(readFile(t, env.vocab), "\n"), "\n")
	if len(vocabLines) != summary.VocabSize {
		t.Fatalf("vocab file has %d lines, summary says %d", len(vocabLines), summary.VocabSize)
	}
	var prev string
	ids := make([]int, 0, len(vocabLines))
	for i, line := range vocabLines {
		fields := strings.Split(line, " ")
		if len(fields) != 3 {
			t.Fatalf("vocab line %q: expected 3 fields", line)
		}
		term := fields[1]
		if !textutil.IsTerm(term) {
			t.Fatalf("vocab term %q fails the token filter", term)
		}
		if i > 0 && term <= prev {
			t.Fatalf("vocab not strictly alphabetical: %q after %q", term, prev)
		}
		prev = term
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			t.Fatalf("bad id in %q", line)
		}
		ids = append(ids, id)
		if freq, err := strconv.Atoi(fields[2]); err != nil || freq <= 0 {
			t.Fatalf("bad frequency in %q", line)
		}
	}
	slices.Sort(ids)
	for i, id := range ids {
		if id != i {
			t.Fatalf("ids are not a permutation of 0..%d", len(ids)-1)
		}
	}

	rows := strings.TrimSuffix(readFile(t, env.training), "\n")
	if rows == "" {
		return
	}
	for _, row := range strings.Split(rows, "\n") {
		fields := strings.Split(row, " ")
		if len(fields) != summary.VocabSize {
			t.Fatalf("row has %d columns, want %d", len(fields), summary.VocabSize)
		}
		sum := 0
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 {
				t.Fatalf("bad count %q in row %q", f, row)
			}
			sum += n
		}
		if sum <= 0 {
			t.Fatalf("row %q has no vocabulary hits", row)
		}
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	env := newBuildEnv(t, "")
	summary := env.build(t, 10)
	if summary.VocabSize != 0 || summary.Rows != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if readFile(t, env.vocab) != "" || readFile(t, env.training) != "" {
		t.Fatal("expected empty outputs")
	}
}

func TestBuildValidation(t *testing.T) {
	env := newBuildEnv(t, "cat\n")
	for _, size := range []int{0, -1} {
		_, err := vocab.Build(context.Background(), vocab.Options{CorpusPath: env.corpus, VocabPath: env.vocab, TrainingPath: env.training, MaxSize: size})
		if !errors.Is(err, jobs.ErrInvalidArgument) {
			t.Fatalf("MaxSize=%d: expected invalid argument, got %v", size, err)
		}
	}
	if _, err := os.Stat(env.vocab); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("no outputs should be written on invalid arguments")
	}

	_, err := vocab.Build(context.Background(), vocab.Options{CorpusPath: env.corpus, VocabPath: env.vocab, TrainingPath: env.vocab, MaxSize: 5})
	if !errors.Is(err, jobs.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for identical outputs, got %v", err)
	}
}

func TestBuildRefusesToOverwriteCorpus(t *testing.T) {
	env := newBuildEnv(t, "cat dog\n")
	link := filepath.Join(env.dir, "corpus-link.txt")
	if err := os.Symlink(env.corpus, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	tests := map[string]vocab.Options{
		"training is corpus": {CorpusPath: env.corpus, VocabPath: env.vocab, TrainingPath: env.corpus},
		"vocab is corpus":    {CorpusPath: env.corpus, VocabPath: env.corpus, TrainingPath: env.training},
		"unclean path":       {CorpusPath: env.corpus, VocabPath: env.vocab, TrainingPath: filepath.Join(env.dir, ".", "sub", "..", "corpus.txt")},
		"symlink to corpus":  {CorpusPath: env.corpus, VocabPath: env.vocab, TrainingPath: link},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			opts.MaxSize = 5
			_, err := vocab.Build(context.Background(), opts)
			if !errors.Is(err, jobs.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
			if got := readFile(t, env.corpus); got != "cat dog\n" {
				t.Fatalf("corpus modified: %q", got)
			}
		})
	}
}

func TestBuildMissingCorpus(t *testing.T) {
	env := newBuildEnv(t, "")
	_, err := vocab.Build(context.Background(), vocab.Options{
		CorpusPath:   filepath.Join(env.dir, "missing.txt"),
		VocabPath:    env.vocab,
		TrainingPath: env.training,
		MaxSize:      5,
	})
	if !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, statErr := os.Stat(env.vocab); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("vocabulary must not be written when the corpus is missing")
	}
}

func TestBuildUnwritableOutput(t *testing.T) {
	env := newBuildEnv(t, "cat dog\n")
	_, err := vocab.Build(context.Background(), vocab.Options{
		CorpusPath:   env.corpus,
		VocabPath:    filepath.Join(env.dir, "missing-dir", "vocab.txt"),
		TrainingPath: env.training,
		MaxSize:      5,
	})
	if !errors.Is(err, jobs.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestBuildCancelled(t *testing.T) {
	env := newBuildEnv(t, "cat\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := vocab.Build(ctx, vocab.Options{CorpusPath: env.corpus, VocabPath: env.vocab, TrainingPath: env.training, MaxSize: 5})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// alphaName maps i to a distinct lower-case alphabetic token.
func alphaName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := []byte{'q'}
	for {
		name = append(name, letters[i%26])
		i /= 26
		if i == 0 {
			break
		}
	}
	s := string(name)
	if textutil.IsStopWord(s) {
		panic(fmt.Sprintf("generated stop word %q", s))
	}
	return s
}
