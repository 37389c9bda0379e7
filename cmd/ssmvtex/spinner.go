package main

import "github.com/pterm/pterm"

// progressSpinner is the terminal-feedback surface runAction drives while a
// pipeline run is in flight. Mirroring this as an interface (rather than
// calling pterm directly) is what lets tests substitute a fake and assert
// on the sequence of calls without a real terminal attached.
type progressSpinner interface {
	UpdateText(text string)
	Success(message ...any)
	Fail(message ...any)
	Stop() error
}

// progressSpinnerFactory starts a new spinner printing text.
type progressSpinnerFactory func(text string) (progressSpinner, error)

// ptermSpinner adapts pterm's SpinnerPrinter to progressSpinner.
type ptermSpinner struct {
	sp *pterm.SpinnerPrinter
}

func (p ptermSpinner) UpdateText(text string) { p.sp.UpdateText(text) }
func (p ptermSpinner) Success(message ...any) { p.sp.Success(message...) }
func (p ptermSpinner) Fail(message ...any)    { p.sp.Fail(message...) }
func (p ptermSpinner) Stop() error            { return p.sp.Stop() }

func defaultSpinnerFactory(text string) (progressSpinner, error) {
	sp, err := pterm.DefaultSpinner.Start(text)
	if err != nil {
		return nil, err
	}
	return ptermSpinner{sp: sp}, nil
}
