// PageFit: A4 image layout desktop app
//
// Packs pictures of fixed physical size onto as few A4 pages as possible,
// lets the user adjust the result by hand and exports print-ready PDFs.
//
// Build:
//   go build -o pagefit ./cmd/pagefit
//
// Using fyne-cross for packaging:
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/PageFit/internal/project"
	"github.com/piwi3910/PageFit/internal/ui"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pagefit",
	})

	application := app.NewWithID("com.piwi3910.pagefit")
	window := application.NewWindow("PageFit: A4 Image Layout")

	appUI := ui.NewApp(application, window, project.DefaultConfigPath(), logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 860))
	window.CenterOnScreen()
	window.ShowAndRun()
}
