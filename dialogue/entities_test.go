package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entityKB = `<knowledge>
  <settings><autoDetectLanguage>false</autoDetectLanguage><defaultLanguage>id</defaultLanguage></settings>
  <entities>
    <entity name="city"><value>jakarta</value><value>bandung</value></entity>
    <entity name="provider"><value>telkomsel</value></entity>
  </entities>
  <items>
    <item id="x" lang="id"><question>q</question><answer>a</answer></item>
  </items>
</knowledge>`

func TestRecognizeEntities(t *testing.T) {
	base := loadKB(t, entityKB)

	got := recognizeEntities([]string{"cuaca", "jakarta", "telkomsel"}, base.Entities)
	assert.Equal(t, map[string]string{"city": "jakarta", "provider": "telkomsel"}, got)
}

func TestRecognizeEntitiesLastTokenWins(t *testing.T) {
	base := loadKB(t, entityKB)

	got := recognizeEntities([]string{"jakarta", "bandung"}, base.Entities)
	require.Contains(t, got, "city")
	assert.Equal(t, "bandung", got["city"])
}

func TestRecognizeEntitiesNoMatch(t *testing.T) {
	base := loadKB(t, entityKB)

	assert.Nil(t, recognizeEntities([]string{"halo", "dunia"}, base.Entities))
	assert.Nil(t, recognizeEntities(nil, base.Entities))
}
