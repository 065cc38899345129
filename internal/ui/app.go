// Package ui implements the PageFit desktop application.
package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/PageFit/internal/editor"
	"github.com/piwi3910/PageFit/internal/engine"
	"github.com/piwi3910/PageFit/internal/export"
	"github.com/piwi3910/PageFit/internal/importer"
	"github.com/piwi3910/PageFit/internal/model"
	"github.com/piwi3910/PageFit/internal/project"
	"github.com/piwi3910/PageFit/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	logger     *log.Logger
	theme      *compactTheme
	config     model.AppConfig
	configPath string
	session    *Session
	tabs       *container.AppTabs

	// Current selection on the Layout tab
	selectedPage int
	selectedID   string

	// UI references for dynamic updates
	imagesContainer *fyne.Container
	layoutContainer *fyne.Container
	statusLabel     *widget.Label
	undoBtn         fyne.Disableable
	redoBtn         fyne.Disableable
}

// NewApp loads the app configuration from configPath and prepares an empty
// project. A broken config file is logged and replaced by defaults.
func NewApp(application fyne.App, window fyne.Window, configPath string, logger *log.Logger) *App {
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config", "path", configPath, "err", err)
		cfg = model.DefaultAppConfig()
	}
	if withEnv, err := project.ApplyEnv(cfg); err != nil {
		logger.Warn("ignoring environment overrides", "err", err)
	} else {
		cfg = withEnv
	}

	opts, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		logger.Warn("invalid engine settings, using defaults", "err", err)
		opts = engine.DefaultOptions()
	}

	a := &App{
		app:        application,
		window:     window,
		logger:     logger,
		theme:      newCompactTheme(cfg.Theme),
		config:     cfg,
		configPath: configPath,
		session:    NewSession(engine.New(opts, logger)),
	}
	application.Settings().SetTheme(a.theme)
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recentMenu := fyne.NewMenuItem("Open Recent", nil)
	recentMenu.ChildMenu = a.buildRecentMenu()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() {
			a.session.Reset()
			a.clearSelection()
			a.refreshAll()
		}),
		fyne.NewMenuItem("Open Project...", a.loadProject),
		recentMenu,
		fyne.NewMenuItem("Save Project...", a.saveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Images...", a.importImages),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", a.exportPDF),
		fyne.NewMenuItem("Export Report...", a.exportReport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup All Data...", a.backupData),
		fyne.NewMenuItem("Restore Backup...", a.restoreData),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Images", func() {
			a.apply(a.session.ClearImages())
		}),
	)

	layoutMenu := fyne.NewMenu("Layout",
		fyne.NewMenuItem("Reset Layout", func() {
			a.apply(a.session.ResetLayout())
		}),
		fyne.NewMenuItem("Compare Strategies", a.showCompareDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, layoutMenu, helpMenu))
}

func (a *App) buildRecentMenu() *fyne.Menu {
	var items []*fyne.MenuItem
	for _, path := range a.config.RecentProjects {
		p := path
		items = append(items, fyne.NewMenuItem(filepath.Base(p), func() {
			a.openProjectFile(p)
		}))
	}
	if len(items) == 0 {
		none := fyne.NewMenuItem("No recent projects", nil)
		none.Disabled = true
		items = append(items, none)
	}
	return fyne.NewMenu("", items...)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PageFit",
		"PageFit: A4 Image Layout\n\n"+
			"Packs pictures of fixed physical size onto as few\n"+
			"A4 pages as possible and exports print-ready PDFs.",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	imagesTab := container.NewTabItem("Images", a.buildImagesPanel())
	layoutTab := container.NewTabItem("Layout", a.buildLayoutPanel())
	settingsTab := container.NewTabItem("Settings", a.buildSettingsPanel())

	a.tabs = container.NewAppTabs(imagesTab, layoutTab, settingsTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	a.statusLabel = widget.NewLabel("")
	a.refreshStatus()

	content := container.NewBorder(nil, a.statusLabel, nil, nil, a.tabs)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

// apply shows err, or refreshes every view after a successful change.
func (a *App) apply(err error) {
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.refreshAll()
}

func (a *App) refreshAll() {
	if _, _, ok := a.session.Locate(a.selectedID); !ok {
		a.clearSelection()
	}
	a.refreshImagesList()
	a.refreshLayout()
	a.refreshStatus()
}

func (a *App) refreshStatus() {
	if a.statusLabel == nil {
		return
	}
	s := a.session
	text := fmt.Sprintf("%d images, %d pages, score %.2f",
		len(s.Project.Images), len(s.Layout.Pages), s.Score())
	if s.Strategy != "" {
		text += " | " + s.Strategy
	}
	if n := len(s.Layout.Rejected); n > 0 {
		text += fmt.Sprintf(" | %d rejected", n)
	}
	a.statusLabel.SetText(text)

	if a.undoBtn != nil {
		setEnabled(a.undoBtn, s.History().CanUndo())
		setEnabled(a.redoBtn, s.History().CanRedo())
	}
}

func setEnabled(d fyne.Disableable, on bool) {
	if on {
		d.Enable()
	} else {
		d.Disable()
	}
}

// ─── Images Panel ──────────────────────────────────────────

func (a *App) buildImagesPanel() fyne.CanvasObject {
	a.imagesContainer = container.NewVBox()
	a.refreshImagesList()

	addBtn := newButtonWithTooltip("Add Image", theme.ContentAddIcon(),
		"Add an image by size or from a picture file", a.showAddImageDialog)
	importBtn := newButtonWithTooltip("Import", theme.FolderOpenIcon(),
		"Import images from CSV, Excel, YAML, JSON or DXF", a.importImages)

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Images", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			importBtn,
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.imagesContainer),
	)
}

func (a *App) refreshImagesList() {
	if a.imagesContainer == nil {
		return
	}
	a.imagesContainer.RemoveAll()

	images := a.session.Project.Images
	if len(images) == 0 {
		a.imagesContainer.Add(widget.NewLabel("No images added yet. Click 'Add Image' to begin."))
		return
	}

	header := container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Width (cm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Height (cm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Source", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.imagesContainer.Add(header)
	a.imagesContainer.Add(widget.NewSeparator())

	for i := range images {
		idx := i
		img := images[idx]
		source := "-"
		if img.Source != "" {
			source = filepath.Base(img.Source)
		}
		row := container.NewGridWithColumns(6,
			widget.NewLabel(img.Label),
			widget.NewLabel(fmt.Sprintf("%.2f", img.Width)),
			widget.NewLabel(fmt.Sprintf("%.2f", img.Height)),
			widget.NewLabel(source),
			newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit image", func() {
				a.showEditImageDialog(idx)
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Remove image", func() {
				a.apply(a.session.RemoveImage(idx))
			}),
		)
		a.imagesContainer.Add(row)
	}
}

// imageForm holds the entries shared by the add and edit dialogs.
type imageForm struct {
	label, width, height, source *widget.Entry
	copies                       *widget.Entry
}

func (a *App) newImageForm(img model.Image, withCopies bool) (*imageForm, []*widget.FormItem) {
	f := &imageForm{
		label:  widget.NewEntry(),
		width:  widget.NewEntry(),
		height: widget.NewEntry(),
		source: widget.NewEntry(),
	}
	f.label.SetText(img.Label)
	f.source.SetText(img.Source)
	f.source.SetPlaceHolder("Optional picture file")
	if img.Width > 0 {
		f.width.SetText(fmt.Sprintf("%.2f", img.Width))
	}
	if img.Height > 0 {
		f.height.SetText(fmt.Sprintf("%.2f", img.Height))
	}
	f.width.SetPlaceHolder("Width in cm")
	f.height.SetPlaceHolder("Height in cm")

	browse := newIconButtonWithTooltip(theme.FolderOpenIcon(), "Pick a picture and size it from its aspect ratio", func() {
		a.pickPicture(f)
	})

	items := []*widget.FormItem{
		widget.NewFormItem("Label", f.label),
		widget.NewFormItem("Picture", container.NewBorder(nil, nil, nil, browse, f.source)),
		widget.NewFormItem("Width (cm)", f.width),
		widget.NewFormItem("Height (cm)", f.height),
	}
	if withCopies {
		f.copies = widget.NewEntry()
		f.copies.SetText("1")
		items = append(items, widget.NewFormItem("Copies", f.copies))
	}
	return f, items
}

// parse reads the form into an image. Copies defaults to 1.
func (f *imageForm) parse() (model.Image, int, error) {
	w, err := parseCentimeters(f.width.Text)
	if err != nil {
		return model.Image{}, 0, fmt.Errorf("width: %w", err)
	}
	h, err := parseCentimeters(f.height.Text)
	if err != nil {
		return model.Image{}, 0, fmt.Errorf("height: %w", err)
	}
	copies := 1
	if f.copies != nil {
		copies, err = strconv.Atoi(strings.TrimSpace(f.copies.Text))
		if err != nil || copies <= 0 {
			return model.Image{}, 0, fmt.Errorf("copies must be a positive number")
		}
	}
	img := model.NewImage(strings.TrimSpace(f.label.Text), w, h)
	img.Source = strings.TrimSpace(f.source.Text)
	if err := model.Validate(img); err != nil {
		return model.Image{}, 0, err
	}
	return img, copies, nil
}

// parseCentimeters accepts a decimal point or a decimal comma.
func parseCentimeters(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func (a *App) pickPicture(f *imageForm) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()

		aspect, err := export.AspectRatio(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		w, h := a.config.SizeFromAspect(aspect, a.session.Spec())
		f.source.SetText(path)
		f.width.SetText(fmt.Sprintf("%.2f", w))
		f.height.SetText(fmt.Sprintf("%.2f", h))
		if f.label.Text == "" {
			f.label.SetText(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		}
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}))
	d.Show()
}

func (a *App) showAddImageDialog() {
	img := model.Image{Label: fmt.Sprintf("Image %d", len(a.session.Project.Images)+1)}
	f, items := a.newImageForm(img, true)

	form := dialog.NewForm("Add Image", "Add", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		img, copies, err := f.parse()
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		batch := make([]model.Image, 0, copies)
		for i := 0; i < copies; i++ {
			c := model.NewImage(img.Label, img.Width, img.Height)
			c.Source = img.Source
			batch = append(batch, c)
		}
		a.apply(a.session.AddImages(batch...))
	}, a.window)
	form.Resize(fyne.NewSize(450, 350))
	form.Show()
}

func (a *App) showEditImageDialog(idx int) {
	f, items := a.newImageForm(a.session.Project.Images[idx], false)

	form := dialog.NewForm("Edit Image", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		img, _, err := f.parse()
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.apply(a.session.UpdateImage(idx, img))
	}, a.window)
	form.Resize(fyne.NewSize(450, 300))
	form.Show()
}

// ─── Layout Panel ──────────────────────────────────────────

func (a *App) buildLayoutPanel() fyne.CanvasObject {
	a.layoutContainer = container.NewStack()

	rotateBtn := newButtonWithTooltip("Rotate", theme.ViewRefreshIcon(),
		"Turn the selected image by 90 degrees", a.rotateSelected)
	moveBtn := newButtonWithTooltip("Move...", theme.NavigateNextIcon(),
		"Enter a new position for the selected image", a.showMoveDialog)
	resetBtn := newButtonWithTooltip("Reset", theme.MediaReplayIcon(),
		"Discard manual edits and recompute the layout", func() {
			a.apply(a.session.ResetLayout())
		})
	undoBtn := newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo)
	redoBtn := newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo)
	compareBtn := newButtonWithTooltip("Compare", theme.ListIcon(),
		"Show the score of every strategy", a.showCompareDialog)
	a.undoBtn, a.redoBtn = undoBtn, redoBtn

	a.refreshLayout()

	return container.NewBorder(
		container.NewHBox(rotateBtn, moveBtn, resetBtn, widget.NewSeparator(),
			undoBtn, redoBtn, layout.NewSpacer(), compareBtn),
		nil, nil, nil,
		a.layoutContainer,
	)
}

func (a *App) refreshLayout() {
	if a.layoutContainer == nil {
		return
	}
	a.layoutContainer.RemoveAll()
	a.layoutContainer.Add(widgets.RenderLayout(a.session.Layout, a.session.Spec(), a.selectedID,
		func(page int, id string) {
			a.selectedPage, a.selectedID = page, id
			a.refreshLayout()
		}))
	a.layoutContainer.Refresh()
}

func (a *App) clearSelection() {
	a.selectedPage, a.selectedID = 0, ""
}

func (a *App) requireSelection() (model.PlacedImage, bool) {
	img, page, ok := a.session.Locate(a.selectedID)
	if !ok {
		dialog.ShowInformation("No image selected", "Click an image on a page first.", a.window)
		return model.PlacedImage{}, false
	}
	a.selectedPage = page
	return img, true
}

func (a *App) rotateSelected() {
	if _, ok := a.requireSelection(); !ok {
		return
	}
	a.apply(a.editError(a.session.Rotate(a.selectedPage, a.selectedID)))
}

func (a *App) showMoveDialog() {
	img, ok := a.requireSelection()
	if !ok {
		return
	}
	xEntry := widget.NewEntry()
	xEntry.SetText(fmt.Sprintf("%.2f", img.X))
	yEntry := widget.NewEntry()
	yEntry.SetText(fmt.Sprintf("%.2f", img.Y))

	form := dialog.NewForm("Move "+img.Label, "Move", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("X (cm)", xEntry),
			widget.NewFormItem("Y (cm)", yEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			x, err := parseCentimeters(xEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			y, err := parseCentimeters(yEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.apply(a.editError(a.session.Move(a.selectedPage, a.selectedID, x, y)))
		},
		a.window,
	)
	form.Resize(fyne.NewSize(350, 200))
	form.Show()
}

// editError turns guard rejections into messages for the user.
func (a *App) editError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, editor.ErrOverlaps):
		return fmt.Errorf("the image would overlap another image: %w", err)
	case errors.Is(err, editor.ErrExceedsPrintArea):
		return fmt.Errorf("the image does not fit inside the print area: %w", err)
	default:
		return err
	}
}

func (a *App) undo() {
	if a.session.Undo() {
		a.refreshAll()
	}
}

func (a *App) redo() {
	if a.session.Redo() {
		a.refreshAll()
	}
}

func (a *App) showCompareDialog() {
	if len(a.session.Project.Images) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one image first.", a.window)
		return
	}
	results := a.session.Compare()
	best := engine.BestResult(results)

	rows := container.NewVBox(container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Strategy", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Pages", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Score", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Efficiency", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	))
	for i, r := range results {
		name := r.Strategy.String()
		if i == best {
			name += " *"
		}
		rows.Add(container.NewGridWithColumns(4,
			widget.NewLabel(name),
			widget.NewLabel(strconv.Itoa(r.Pages)),
			widget.NewLabel(fmt.Sprintf("%.2f", r.Score)),
			widget.NewLabel(fmt.Sprintf("%.1f%%", r.Efficiency)),
		))
	}

	d := dialog.NewCustom("Strategy Comparison", "Close", container.NewVScroll(rows), a.window)
	d.Resize(fyne.NewSize(640, 420))
	d.Show()
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	cfg := a.config

	oversizeSelect := widget.NewSelect([]string{string(model.OversizeForce), string(model.OversizeReject)}, nil)
	oversizeSelect.SetSelected(string(cfg.OversizePolicy))

	algorithmSelect := widget.NewSelect([]string{"Strategy catalog (fast)", "Genetic refinement (better)"}, nil)
	if cfg.Algorithm == model.AlgorithmGenetic {
		algorithmSelect.SetSelected("Genetic refinement (better)")
	} else {
		algorithmSelect.SetSelected("Strategy catalog (fast)")
	}

	extendedCheck := widget.NewCheck("", nil)
	extendedCheck.SetChecked(cfg.StrategySet == model.StrategySetExtended)

	workersEntry := widget.NewEntry()
	workersEntry.SetText(strconv.Itoa(cfg.Workers))

	widthEntry := widget.NewEntry()
	widthEntry.SetText(fmt.Sprintf("%.2f", cfg.DefaultImageWidth))

	qrCheck := widget.NewCheck("", nil)
	qrCheck.SetChecked(cfg.EmbedManifestQR)
	printAreaCheck := widget.NewCheck("", nil)
	printAreaCheck.SetChecked(cfg.DrawPrintArea)

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, nil)
	themeSelect.SetSelected(cfg.Theme)

	layoutSection := widget.NewCard("Layout", "", container.NewGridWithColumns(2,
		widget.NewLabel("Oversized images"), oversizeSelect,
		widget.NewLabel("Algorithm"), algorithmSelect,
		widget.NewLabel("Extended strategy catalog"), extendedCheck,
		widget.NewLabel("Parallel workers"), workersEntry,
		widget.NewLabel("Default picture width (cm)"), widthEntry,
	))

	exportSection := widget.NewCard("Export", "", container.NewGridWithColumns(2,
		widget.NewLabel("Embed page manifest QR"), qrCheck,
		widget.NewLabel("Draw print area guide"), printAreaCheck,
	))

	appSection := widget.NewCard("Application", "", container.NewGridWithColumns(2,
		widget.NewLabel("Theme"), themeSelect,
	))

	saveBtn := widget.NewButtonWithIcon("Apply and Save", theme.DocumentSaveIcon(), func() {
		next := a.config
		next.OversizePolicy = model.OversizePolicy(oversizeSelect.Selected)
		next.Algorithm = model.AlgorithmCatalog
		if algorithmSelect.Selected == "Genetic refinement (better)" {
			next.Algorithm = model.AlgorithmGenetic
		}
		next.StrategySet = model.StrategySetDefault
		if extendedCheck.Checked {
			next.StrategySet = model.StrategySetExtended
		}
		workers, err := strconv.Atoi(strings.TrimSpace(workersEntry.Text))
		if err != nil || workers < 1 {
			dialog.ShowError(fmt.Errorf("workers must be a positive number"), a.window)
			return
		}
		next.Workers = workers
		width, err := parseCentimeters(widthEntry.Text)
		if err != nil || !model.ValidDim(width) {
			dialog.ShowError(fmt.Errorf("default picture width must be positive"), a.window)
			return
		}
		next.DefaultImageWidth = width
		next.EmbedManifestQR = qrCheck.Checked
		next.DrawPrintArea = printAreaCheck.Checked
		next.Theme = themeSelect.Selected

		a.apply(a.applyConfig(next))
	})

	return container.NewVScroll(container.NewVBox(
		layoutSection,
		exportSection,
		appSection,
		container.NewHBox(layout.NewSpacer(), saveBtn),
	))
}

// applyConfig switches the engine to cfg, persists it and refreshes the theme.
func (a *App) applyConfig(cfg model.AppConfig) error {
	opts, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := a.session.SetEngine(engine.New(opts, a.logger)); err != nil {
		return err
	}
	a.config = cfg
	a.theme.SetVariant(cfg.Theme)
	a.app.Settings().SetTheme(a.theme)
	if err := project.SaveAppConfig(a.configPath, cfg); err != nil {
		return fmt.Errorf("settings applied but not saved: %w", err)
	}
	a.logger.Info("settings saved", "path", a.configPath)
	return nil
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) rememberProject(path string) {
	a.config = project.AddRecentProject(a.config, path)
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.logger.Warn("failed to save recent projects", "err", err)
	}
	a.SetupMenus()
}

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		proj := a.session.SavedProject()
		proj.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := project.Save(path, proj); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.session.Project.Name = proj.Name
		a.rememberProject(path)
	}, a.window)
	d.SetFileName(a.session.Project.Name + project.FileExtension)
	d.Show()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		a.openProjectFile(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.FileExtension}))
	d.Show()
}

func (a *App) openProjectFile(path string) {
	proj, err := project.Load(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if err := a.session.Load(proj); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.clearSelection()
	a.refreshAll()
	a.rememberProject(path)
}

func (a *App) importImages() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		a.handleImportResult(importer.ImportFile(reader.URI().Path()))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".tsv", ".txt", ".xlsx", ".yaml", ".yml", ".json", ".dxf"}))
	d.Show()
}

func (a *App) handleImportResult(result importer.ImportResult) {
	for _, w := range result.Warnings {
		a.logger.Warn("import", "msg", w)
	}
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(errors.New(errorMsg), a.window)
	}
	if len(result.Images) == 0 {
		return
	}

	if err := a.session.AddImages(result.Images...); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.refreshAll()

	msg := fmt.Sprintf("Successfully imported %d images.", len(result.Images))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func (a *App) requireLayout() bool {
	if a.session.Layout.ImageCount() == 0 {
		dialog.ShowInformation("Nothing to export", "Add images to compute a layout first.", a.window)
		return false
	}
	return true
}

func (a *App) exportPDF() {
	if !a.requireLayout() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		opts := export.PDFOptions{
			Spec:            a.session.Spec(),
			DrawPrintArea:   a.config.DrawPrintArea,
			EmbedManifestQR: a.config.EmbedManifestQR,
		}
		if err := export.WritePDF(writer, a.session.Layout, opts); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("PDF saved to %s", writer.URI().Path()), a.window)
	}, a.window)
	d.SetFileName(a.session.Project.Name + ".pdf")
	d.Show()
}

func (a *App) exportReport() {
	if !a.requireLayout() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := export.WriteReport(writer, a.session.Layout, a.session.Spec()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Report saved to %s", writer.URI().Path()), a.window)
	}, a.window)
	d.SetFileName(a.session.Project.Name + ".xlsx")
	d.Show()
}

func (a *App) backupData() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		proj := a.session.SavedProject()
		if err := project.ExportAllData(writer.URI().Path(), a.config, &proj); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Backup Complete", "Settings and project were saved.", a.window)
	}, a.window)
	d.SetFileName("pagefit-backup.json")
	d.Show()
}

func (a *App) restoreData() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		data, err := project.ImportAllData(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if err := a.applyConfig(data.Config); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if data.Project != nil {
			if err := a.session.Load(*data.Project); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
		}
		a.clearSelection()
		// Settings widgets were built from the old config
		a.tabs.Items[2].Content = a.buildSettingsPanel()
		a.tabs.Refresh()
		a.refreshAll()
		a.SetupMenus()
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}
