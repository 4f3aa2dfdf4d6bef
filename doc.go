// Package sgmlprep preprocesses SGML-tagged text corpora for sentence
// boundary detection and parsing.
//
// # Markup Separator
//
// Separator routes markup lines (lines starting with '<') and overlong lines
// to a side writer and leaves a blank placeholder on the main writer, so both
// outputs stay line-aligned with the input:
//
//	sep := sgmlprep.NewSeparator(os.Stdout, side)
//	stats, err := sep.Run(ctx, os.Stdin)
//
// # Sentence Splitter
//
// Splitter reassembles wrapped plain-text lines into paragraphs, hands each
// paragraph to a Model and writes one sentence per line. Markup lines pass
// through untouched:
//
//	model, err := sat.New("model_optimized.onnx", "sentencepiece.bpe.model")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer model.Close()
//
//	sp := sgmlprep.NewSplitter(model, os.Stdout, sgmlprep.WithDiagnostics(os.Stderr))
//	stats, err := sp.Run(ctx, os.Stdin)
//
// When a model returns less text than it was given, the missing suffix is
// appended as a final sentence and an "SBD ERROR" line naming the paragraph
// is written to the diagnostics writer.
package sgmlprep
