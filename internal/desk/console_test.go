package desk

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConsole(t *testing.T, api *fakeAPI, input string) string {
	t.Helper()
	session := newTestSession(t, api, &fakeClock{now: time.Now()})
	var out bytes.Buffer
	err := NewConsole(session, strings.NewReader(input), &out).Run(context.Background())
	require.NoError(t, err)
	return out.String()
}

func TestConsoleListsAndCreatesTariff(t *testing.T) {
	api := newFakeAPI()
	input := strings.Join([]string{
		"clients",
		"tariff new",
		"Acme", "Pallet", "Unit", "10", "", "0", "2025-01-01", "",
		"quit",
	}, "\n") + "\n"

	out := runConsole(t, api, input)
	assert.Contains(t, out, "Beta Corp")
	assert.Contains(t, out, "tariff 11 created")
	assert.Equal(t, 1, api.count("POST /api/tariffs"))
	assert.Equal(t, "10", api.bodies["POST /api/tariffs"]["price"])
}

func TestConsoleEditKeepsBlankAnswers(t *testing.T) {
	api := newFakeAPI()
	input := strings.Join([]string{
		"tariff edit 11",
		"", "", "", "125", "", "", "", "",
		"quit",
	}, "\n") + "\n"

	out := runConsole(t, api, input)
	assert.Contains(t, out, "client [Acme]: ")
	assert.Contains(t, out, "tariff 11 updated")
	body := api.bodies["PUT /api/tariffs/11"]
	assert.Equal(t, "125", body["price"])
	assert.Equal(t, float64(1), body["client_id"])
}

func TestConsolePrintsErrorsAndContinues(t *testing.T) {
	api := newFakeAPI()
	input := strings.Join([]string{
		"bogus",
		"tariff new",
		"Nobody", "Pallet", "Unit", "10", "", "", "2025-01-01", "",
		"expiring",
		"tariff delete x",
		"clients",
	}, "\n") + "\n"

	out := runConsole(t, api, input)
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "invalid client:")
	assert.Contains(t, out, "server refused (404)")
	assert.Contains(t, out, `invalid id "x"`)
	assert.Contains(t, out, "Acme")
	assert.Zero(t, api.count("POST /api/tariffs"))
}

func TestConsoleIncrease(t *testing.T) {
	api := newFakeAPI()
	input := strings.Join([]string{
		"increase",
		"item", "pallet", "y", "Acme", "", "", "10",
		"exit",
	}, "\n") + "\n"

	out := runConsole(t, api, input)
	assert.Contains(t, out, "1 tariffs updated")
	body := api.bodies["POST /api/bulk_tariff_update"]
	assert.Equal(t, float64(7), body["selection_id"])
	assert.Equal(t, true, body["include_client"])
	assert.Equal(t, float64(1), body["client_id"])
}

func TestConsoleRangedTariffCommands(t *testing.T) {
	api := newFakeAPI()
	input := strings.Join([]string{
		"ranged",
		"ranged edit 21",
		"", "", "", "85", "", "", "", "", "", "100",
		"ranged delete 21",
		"ranged purge",
		"quit",
	}, "\n") + "\n"

	out := runConsole(t, api, input)
	assert.Contains(t, out, "10.00-50.00")
	assert.Contains(t, out, "from qty [10]: ")
	assert.Contains(t, out, "ranged tariff 21 updated")
	assert.Contains(t, out, "ranged tariff 21 deleted")
	assert.Contains(t, out, `unknown ranged action "purge"`)

	body := api.bodies["PUT /api/ranged_tariffs/21"]
	assert.Equal(t, "85", body["price"])
	assert.Equal(t, "10", body["from_qty"])
	assert.Equal(t, "100", body["to_qty"])
	assert.Equal(t, 1, api.count("DELETE /api/ranged_tariffs/21"))
}

func TestConsoleDeletesReferenceData(t *testing.T) {
	api := newFakeAPI()
	input := strings.Join([]string{
		"client delete 2",
		"unit delete 9",
		"category delete 3",
		"item delete 7",
		"client delete 5",
		"quit",
	}, "\n") + "\n"

	out := runConsole(t, api, input)
	assert.Contains(t, out, "client 2 deleted")
	assert.Contains(t, out, "unit 9 deleted")
	assert.Contains(t, out, "category 3 deleted")
	assert.Contains(t, out, "item 7 deleted")
	assert.Contains(t, out, "server refused (404)")
	assert.Equal(t, 1, api.count("DELETE /api/items/7"))
}
