package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cascadeByID(t *testing.T, id string) Spec {
	t.Helper()
	for _, spec := range DefaultCascade() {
		if spec.ID == id {
			return spec
		}
	}
	t.Fatalf("no source with id %q in default cascade", id)
	return Spec{}
}

func TestDefaultCascadeOrder(t *testing.T) {
	cascade := DefaultCascade()
	require.Len(t, cascade, 3)
	assert.Equal(t, IDPlayStore, cascade[0].ID)
	assert.Equal(t, IDAppBrain, cascade[1].ID)
	assert.Equal(t, IDXposed, cascade[2].ID)
}

func TestSpecURL(t *testing.T) {
	play := cascadeByID(t, IDPlayStore)
	assert.Equal(t,
		"https://play.google.com/store/apps/details?id=com.example.app",
		play.URL("com.example.app"))

	appBrain := cascadeByID(t, IDAppBrain)
	assert.Equal(t,
		"https://www.appbrain.com/app/google/com.example.app",
		appBrain.URL("com.example.app"))
	assert.Equal(t, "agentok=1", appBrain.Cookie)

	xposed := cascadeByID(t, IDXposed)
	assert.Equal(t, "http://repo.xposed.info/module/com.example.app", xposed.URL("com.example.app"))
}

func TestPlayStoreExtract(t *testing.T) {
	play := cascadeByID(t, IDPlayStore)

	page := `<div class="content" itemprop="softwareVersion">1.1</div>`
	got, found := play.Extract(page)
	require.True(t, found)
	assert.Equal(t, "1.1", got)

	// Surrounding whitespace in the capture is trimmed.
	page = `<div itemprop="softwareVersion"> 2.3.4 </div>`
	got, found = play.Extract(page)
	require.True(t, found)
	assert.Equal(t, "2.3.4", got)

	_, found = play.Extract(`<div class="unrelated">nothing here</div>`)
	assert.False(t, found)
}

func TestPlayStoreExtractNonVersionText(t *testing.T) {
	play := cascadeByID(t, IDPlayStore)

	// Extraction is purely positional; classification happens later.
	got, found := play.Extract(`<div itemprop="softwareVersion">Varies with device</div>`)
	require.True(t, found)
	assert.Equal(t, "Varies with device", got)
}

func TestAppBrainExtract(t *testing.T) {
	appBrain := cascadeByID(t, IDAppBrain)

	got, found := appBrain.Extract(`<div class="clDesc">Version 4.2.1</div>`)
	require.True(t, found)
	assert.Equal(t, "4.2.1", got)

	_, found = appBrain.Extract(`<div class="clDesc">No version line</div>`)
	assert.False(t, found)
}

func TestAppBrainUnavailable(t *testing.T) {
	appBrain := cascadeByID(t, IDAppBrain)

	assert.True(t, appBrain.Unavailable(
		`<p>This app is unfortunately no longer available on the Android market.</p>`))
	assert.True(t, appBrain.Unavailable(
		`<h1>Oops! This page does not exist anymore...</h1>`))
	assert.False(t, appBrain.Unavailable(`<div class="clDesc">Version 1.0</div>`))

	// Sources without a delisting pattern never report unavailable.
	play := cascadeByID(t, IDPlayStore)
	assert.False(t, play.Unavailable("anything at all"))
}

func TestXposedExtract(t *testing.T) {
	xposed := cascadeByID(t, IDXposed)

	page := `>1.5.2</div></div></div><div class="field field-name-field-release-type field-type-list-text field-label-inline clearfix"><div class="field-label">Release type:&nbsp;</div><div class="field-items"><div class="field-item even">Stable`
	got, found := xposed.Extract(page)
	require.True(t, found)
	assert.Equal(t, "1.5.2", got)

	// A beta-only release page does not match.
	beta := `>1.6.0-beta</div></div></div><div class="field field-name-field-release-type field-type-list-text field-label-inline clearfix"><div class="field-label">Release type:&nbsp;</div><div class="field-items"><div class="field-item even">Beta`
	_, found = xposed.Extract(beta)
	assert.False(t, found)
}
