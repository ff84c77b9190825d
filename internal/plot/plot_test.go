package plot

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"qgrover/internal/backend"
	"qgrover/internal/grover"
)

func TestAmplitudesPairsAuxiliaryStates(t *testing.T) {
	r := 1 / math.Sqrt2
	state := []complex128{0.5, -0.5, 0.5, -0.5}
	got, err := Amplitudes(state)
	if err != nil {
		t.Fatalf("Amplitudes: %v", err)
	}
	want := []float64{r, r}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("amplitudes (-want +got):\n%s", diff)
	}
}

func TestAmplitudesBadLength(t *testing.T) {
	for _, n := range []int{0, 1, 3, 6} {
		if _, err := Amplitudes(make([]complex128, n)); !errors.Is(err, ErrBadStateLength) {
			t.Errorf("len %d: expected ErrBadStateLength, got %v", n, err)
		}
	}
}

func executeState(t *testing.T, n, iterations int, target uint64) []float64 {
	t.Helper()
	c, err := grover.Amplify(n, iterations, target)
	if err != nil {
		t.Fatalf("Amplify: %v", err)
	}
	exec, err := backend.New(backend.Config{})
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	res, err := exec.Execute(context.Background(), c, 0)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	state, err := res.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	amps, err := Amplitudes(state)
	if err != nil {
		t.Fatalf("Amplitudes: %v", err)
	}
	return amps
}

func TestAmplitudesOfSuperposition(t *testing.T) {
	const n = 3
	amps := executeState(t, n, 0, grover.AllOnes(n))
	if len(amps) != 1<<n {
		t.Fatalf("got %d amplitudes, want %d", len(amps), 1<<n)
	}
	uniform := 1 / math.Sqrt(1<<n)
	for i, a := range amps {
		if math.Abs(a-uniform) > 1e-9 {
			t.Errorf("amp[%03b] = %v, want %v", i, a, uniform)
		}
	}
}

func TestAmplitudesAfterAmplification(t *testing.T) {
	const n = 3
	target := uint64(0b010)
	amps := executeState(t, n, 2, target)

	best := 0
	for i, a := range amps {
		if math.Abs(a) > math.Abs(amps[best]) {
			best = i
		}
	}
	if best != int(target) {
		t.Fatalf("largest amplitude at %03b, want %03b (%v)", best, target, amps)
	}
	// sin(5θ) with sin θ = 1/√8.
	want := math.Sin(5 * math.Asin(1/math.Sqrt(8)))
	if math.Abs(math.Abs(amps[best])-want) > 1e-9 {
		t.Errorf("target amplitude %v, want ±%v", amps[best], want)
	}
}

func TestLabels(t *testing.T) {
	want := []string{"00", "01", "10", "11"}
	if diff := cmp.Diff(want, Labels(2)); diff != "" {
		t.Fatalf("labels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Labels(3), LabelsFor(make([]float64, 8))); diff != "" {
		t.Fatalf("LabelsFor (-want +got):\n%s", diff)
	}
}

func chartRows(out string) []string {
	lines := strings.Split(out, "\n")
	// title, blank line, axis header, rows..., caption
	return lines[3 : len(lines)-1]
}

func TestRender(t *testing.T) {
	labels := []string{"00", "01", "10", "11"}
	values := []float64{1.0, -0.5, 2.0, 0}
	out := Render(labels, values, 60)

	for _, want := range []string{"Amplitudes", "state", "magnitude", "-1.1", "1.1", "+1.000", "-0.500", "+2.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}

	// width 60 leaves 22 cells per half axis.
	rows := chartRows(out)
	if len(rows) != 4 {
		t.Fatalf("got %d rows:\n%s", len(rows), out)
	}
	wantCells := []int{20, 10, 22, 0}
	for i, row := range rows {
		if got := strings.Count(row, "█"); got != wantCells[i] {
			t.Errorf("row %s: %d cells, want %d", labels[i], got, wantCells[i])
		}
	}
}

func TestRenderNegativeBarLeftOfAxis(t *testing.T) {
	out := Render([]string{"0"}, []float64{-1.1}, 40)
	row := chartRows(out)[0]
	bar := strings.Index(row, "█")
	axis := strings.Index(row, "│")
	if bar < 0 || axis < 0 || bar > axis {
		t.Fatalf("negative bar must sit left of the axis: %q", row)
	}
}

func TestRenderMinimumWidth(t *testing.T) {
	narrow := Render(Labels(1), []float64{0.5, 0.5}, 5)
	wide := Render(Labels(1), []float64{0.5, 0.5}, minWidth)
	if narrow != wide {
		t.Fatal("widths below the minimum must render at the minimum")
	}
}

func TestChartLifecycle(t *testing.T) {
	m := NewChart(Labels(2), []float64{0.5, 0.5, 0.5, 0.5})
	if m.Init() != nil {
		t.Fatal("Init should not issue a command")
	}
	if got := m.View(); got != "Initializing..." {
		t.Fatalf("view before sizing = %q", got)
	}

	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = model.(Chart)
	if !strings.Contains(m.View(), "Amplitudes") {
		t.Fatalf("sized view missing title:\n%s", m.View())
	}

	model, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	m = model.(Chart)
	if !strings.Contains(m.View(), "q Quit") {
		t.Fatalf("view missing help line:\n%s", m.View())
	}
}

func TestChartQuitKeys(t *testing.T) {
	msgs := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}
	for _, msg := range msgs {
		m := NewChart(Labels(1), []float64{1, 0})
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", msg)
		}
	}
}
