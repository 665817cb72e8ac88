// Package showcase holds built-in scripts used by the demo command.
package showcase

import (
	"fmt"

	"github.com/ivlev/chart2video/internal/chart"
	"github.com/ivlev/chart2video/internal/effects"
	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
	"github.com/ivlev/chart2video/internal/script"
)

// RepoURL is encoded in the closing slide's QR code.
const RepoURL = "https://github.com/ivlev/chart2video"

var (
	transactionTypes  = []string{"CASH_OUT", "PAYMENT", "CASH_IN", "TRANSFER", "DEBIT"}
	transactionCounts = []float64{2237500, 2151495, 1399284, 532909, 41432}

	epochs = []float64{1, 2, 3, 4, 5, 6, 7, 8}
	acc    = []float64{0.8066, 0.8535, 0.8547, 0.8718, 0.8614, 0.8612, 0.8479, 0.8654}
	valAcc = []float64{0.8771, 0.8777, 0.8882, 0.8827, 0.8899, 0.8306, 0.8843, 0.8880}
	auc    = []float64{0.8931, 0.9317, 0.9327, 0.9356, 0.9349, 0.9385, 0.9377, 0.9382}
	valAUC = []float64{0.9348, 0.9390, 0.9385, 0.9417, 0.9415, 0.9416, 0.9417, 0.9421}
)

func show(target string) script.PrimitiveArgs {
	return script.PrimitiveArgs{Kind: string(effects.KindFadeIn), Target: target}
}

func fadeIn(target string, shift geometry.Direction) script.PrimitiveArgs {
	p := show(target)
	p.Shift = script.Dir(shift)
	return p
}

func fadeOut(target string) script.PrimitiveArgs {
	return script.PrimitiveArgs{Kind: string(effects.KindFadeOut), Target: target}
}

func create(target string) script.PrimitiveArgs {
	return script.PrimitiveArgs{Kind: string(effects.KindCreate), Target: target}
}

func play(label string, prims ...script.PrimitiveArgs) script.PlayArgs {
	return script.PlayArgs{Label: label, Primitives: prims}
}

func heading(id, text string, size float64) script.TextArgs {
	return script.TextArgs{ID: id, Text: text, Style: script.Style{FontSize: size}}
}

// section swaps the current heading for a new one and holds for a second.
func section(s *script.Script, from, id, text string) {
	s.Add(script.OpText, heading(id, text, 36)).
		Add(script.OpPlaceInFrame, script.PlaceInFrameArgs{Subject: id, Direction: "up"}).
		Add(script.OpPlay, play(id, script.PrimitiveArgs{Kind: string(effects.KindReplacementTransform), Target: from, To: id})).
		Add(script.OpWait, script.WaitArgs{Duration: 1})
}

// bars reveals a bar chart column by column, then fades it out.
func bars(s *script.Script, id string, n int) {
	s.Add(script.OpPlay, play(id+" axis", create(id+"-axis")))
	for i := 0; i < n; i++ {
		s.Add(script.OpPlay, script.PlayArgs{
			Label: fmt.Sprintf("%s column %d", id, i),
			Wait:  0.2,
			Primitives: []script.PrimitiveArgs{
				{Kind: string(effects.KindGrowFromEdge), Target: fmt.Sprintf("%s-bar-%d", id, i), Edge: script.Dir(geometry.Down)},
				fadeIn(fmt.Sprintf("%s-label-%d", id, i), geometry.Down),
				fadeIn(fmt.Sprintf("%s-value-%d", id, i), geometry.Up),
			},
		})
	}
	s.Add(script.OpWait, script.WaitArgs{Duration: 1}).
		Add(script.OpPlay, play(id+" out", fadeOut(id+"-axis"), fadeOut(id)))
}

// FraudDetection is the fraud-detection model walkthrough: dataset intro,
// transaction types, class balance, training curves, confusion matrix and
// results.
func FraudDetection() *script.Script {
	s := script.New()

	s.Add(script.OpText, heading("title", "Financial Fraud Detection", 60)).
		Add(script.OpPlaceInFrame, script.PlaceInFrameArgs{Subject: "title", Direction: "up"}).
		Add(script.OpPlay, play("title", fadeIn("title", geometry.Down))).
		Add(script.OpWait, script.WaitArgs{Duration: 2})

	s.Add(script.OpText, heading("intro", "Dataset Size: 6.36M rows, 11 columns\nTotal Frauds: 8,213\nNo Missing Values", 36)).
		Add(script.OpPlace, script.PlaceArgs{Subject: "intro", Reference: "title", Direction: "down", Gap: 1}).
		Add(script.OpPlay, play("intro", script.PrimitiveArgs{Kind: string(effects.KindWrite), Target: "intro"})).
		Add(script.OpWait, script.WaitArgs{Duration: 3}).
		Add(script.OpPlay, play("intro out", fadeOut("intro")))

	types, _ := chart.NewSeries("transaction types", transactionTypes, transactionCounts)
	section(s, "title", "section-1", "1) Transaction Types Distribution")
	s.Add(script.OpBarChart, script.BarChartArgs{ID: "types", Series: types})
	bars(s, "types", len(transactionTypes))

	balance, _ := chart.NewSeries("class balance", []string{"Non-Fraud", "Fraud"}, []float64{6354407, 8213})
	section(s, "section-1", "section-2", "2) Fraud vs. Non-Fraud")
	s.Add(script.OpBarChart, script.BarChartArgs{
		ID:         "balance",
		Series:     balance,
		MaxHeight:  script.F(6),
		AxisLength: script.F(6),
		BarWidth:   script.F(0.8),
		Colors:     map[string]scene.Color{"Non-Fraud": scene.White, "Fraud": scene.Grey},
	})
	bars(s, "balance", 2)

	section(s, "section-2", "section-3", "3) Training Metrics over 8 Epochs")
	s.Add(script.OpLineChart, script.LineChartArgs{
		ID:     "accuracy",
		X:      chart.Range{Min: 1, Max: 8, Length: 5},
		Y:      chart.Range{Min: 0.80, Max: 0.90, Length: 3},
		Center: script.Vector{X: -3, Y: -1},
		Plots: []script.PlotArgs{
			{ID: "acc", X: epochs, Y: acc, Color: script.C(scene.GreyB), Dots: true},
			{ID: "val-acc", X: epochs, Y: valAcc, Color: script.C(scene.GreyC), Dots: true},
		},
	}).Add(script.OpLineChart, script.LineChartArgs{
		ID:     "auc",
		X:      chart.Range{Min: 1, Max: 8, Length: 5},
		Y:      chart.Range{Min: 0.88, Max: 0.95, Length: 3},
		Center: script.Vector{X: 3, Y: -1},
		Plots: []script.PlotArgs{
			{ID: "auc-train", X: epochs, Y: auc, Color: script.C(scene.GreyB), Dots: true},
			{ID: "val-auc", X: epochs, Y: valAUC, Color: script.C(scene.GreyC), Dots: true},
		},
	})
	labels := []struct {
		id, text, ref, dir string
		color              scene.Color
	}{
		{"acc-label", "Accuracy", "accuracy-axes", "up", scene.GreyB},
		{"val-acc-label", "Val Accuracy", "accuracy-axes", "down", scene.GreyC},
		{"auc-label", "AUC", "auc-axes", "up", scene.GreyB},
		{"val-auc-label", "Val AUC", "auc-axes", "down", scene.GreyC},
	}
	for _, l := range labels {
		s.Add(script.OpText, script.TextArgs{ID: l.id, Text: l.text, Style: script.Style{FontSize: 24, Color: script.C(l.color)}}).
			Add(script.OpPlace, script.PlaceArgs{Subject: l.id, Reference: l.ref, Direction: l.dir, Gap: 0.25})
	}
	s.Add(script.OpPlay, play("axes", create("accuracy-axes"), create("auc-axes"))).
		Add(script.OpPlay, play("accuracy curves", create("acc"), create("val-acc"))).
		Add(script.OpPlay, play("accuracy labels", show("acc-label"), show("val-acc-label"))).
		Add(script.OpPlay, play("auc curves", create("auc-train"), create("val-auc"))).
		Add(script.OpPlay, play("auc labels", show("auc-label"), show("val-auc-label"))).
		Add(script.OpWait, script.WaitArgs{Duration: 2}).
		Add(script.OpPlay, play("metrics out",
			fadeOut("accuracy"), fadeOut("auc"),
			fadeOut("acc-label"), fadeOut("val-acc-label"), fadeOut("auc-label"), fadeOut("val-auc-label"),
		))

	section(s, "section-3", "section-4", "4) Confusion Matrix")
	s.Add(script.OpConfusionMatrix, script.MatrixArgs{
		ID: "confusion",
		Cells: [][]string{
			{"TN\n1,692,561", "FP\n213,761"},
			{"FN\n394", "TP\n2,070"},
		},
		RowLabels: []string{"Non-Fraud", "Fraud"},
		ColLabels: []string{"Non-Fraud", "Fraud"},
		RowTitle:  "Actual",
		ColTitle:  "Predicted",
	}).
		Add(script.OpPlay, play("matrix", fadeIn("confusion", geometry.Up))).
		Add(script.OpWait, script.WaitArgs{Duration: 2}).
		Add(script.OpPlay, play("matrix out", fadeOut("confusion")))

	section(s, "section-4", "section-5", "5) Final Results & Conclusion")
	s.Add(script.OpText, script.TextArgs{
		ID:    "results",
		Text:  "Test Loss: 0.2937\nTest Accuracy: 0.8879\nTest AUC: 0.9404\nRecall (Fraud): 0.84\nWeighted Avg F1: ~0.94",
		Style: script.Style{FontSize: 28, Position: script.V(0, 0.5)},
	}).
		Add(script.OpPlay, play("results", show("results"))).
		Add(script.OpWait, script.WaitArgs{Duration: 3}).
		Add(script.OpText, script.TextArgs{
			ID:    "conclusion",
			Text:  "The model effectively detects fraud.\nNext steps: fine-tune or handle imbalance further.\nThank you!",
			Style: script.Style{FontSize: 28},
		}).
		Add(script.OpPlace, script.PlaceArgs{Subject: "conclusion", Reference: "results", Direction: "down", Gap: 1}).
		Add(script.OpPlay, play("conclusion", show("conclusion"))).
		Add(script.OpWait, script.WaitArgs{Duration: 3}).
		Add(script.OpPlay, play("results out", fadeOut("results"), fadeOut("conclusion"), fadeOut("section-5"))).
		Add(script.OpWait, script.WaitArgs{Duration: 1})

	s.Add(script.OpText, heading("end", "End of Presentation", 36)).
		Add(script.OpQR, script.QRArgs{ID: "end-qr", Content: RepoURL, Size: 2}).
		Add(script.OpPlace, script.PlaceArgs{Subject: "end-qr", Reference: "end", Direction: "down", Gap: 0.5}).
		Add(script.OpPlay, play("end", fadeIn("end", geometry.Down), show("end-qr"))).
		Add(script.OpWait, script.WaitArgs{Duration: 2}).
		Add(script.OpPlay, play("end out", fadeOut("end"), fadeOut("end-qr"))).
		Add(script.OpWait, script.WaitArgs{Duration: 1})

	return s
}
