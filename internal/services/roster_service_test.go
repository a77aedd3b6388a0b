package services

import (
	"fmt"
	"net/http"
	"testing"

	"integoreport/internal/freshservice"
	"integoreport/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterUpstream(companies string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/companies", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, companies)
		} else {
			fmt.Fprint(w, `{"companies":[]}`)
		}
	})
	return mux
}

func TestBuildRosterReplacesWholesale(t *testing.T) {
	db := setupTestDB(t)

	fs := newUpstream(t, rosterUpstream(`{"companies":[{"id":1,"name":"Alpha"},{"id":2,"name":"Beta"}]}`))
	entries, err := NewRosterService().BuildRoster(fs)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// 第二次重建：客户1消失、客户3出现，整表替换不留陈旧条目
	fs = newUpstream(t, rosterUpstream(`{"companies":[{"id":2,"name":"Beta"},{"id":3,"name":"Gamma"}]}`))
	entries, err = NewRosterService().BuildRoster(fs)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var stored []models.RosterEntry
	require.NoError(t, db.Order("client_id ASC").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, int64(2), stored[0].ClientID)
	assert.Equal(t, int64(3), stored[1].ClientID)
	assert.Equal(t, "company", stored[0].RetrievedAs)
}

func TestBuildRosterFailureKeepsPreviousEntries(t *testing.T) {
	db := setupTestDB(t)

	fs := newUpstream(t, rosterUpstream(`{"companies":[{"id":1,"name":"Alpha"}]}`))
	_, err := NewRosterService().BuildRoster(fs)
	require.NoError(t, err)

	// 上游枚举失败时不动现有花名册
	broken := newUpstream(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err = NewRosterService().BuildRoster(broken)
	require.Error(t, err)
	assert.True(t, freshservice.IsUpstream(err))

	var stored []models.RosterEntry
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(1), stored[0].ClientID)
	assert.Equal(t, "Alpha", stored[0].Name)
}

func TestGetRosterJoinsCollectionMetadata(t *testing.T) {
	setupTestDB(t)

	fs := newUpstream(t, rosterUpstream(`{"companies":[{"id":7,"name":"Acme Corp"}]}`))
	_, err := NewRosterService().BuildRoster(fs)
	require.NoError(t, err)

	// 未采集过：无最近采集信息
	items, total, err := NewRosterService().GetRoster(1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].LastRetrievedAt)
	assert.Nil(t, items[0].TicketCount)

	// 采集一次后带上数据集摘要
	window := julyWindow()
	_, err = NewCollectorService(newUpstream(t, collectUpstream())).
		Collect(7, CollectOptions{Window: &window})
	require.NoError(t, err)

	items, _, err = NewRosterService().GetRoster(1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].LastRetrievedAt)
	require.NotNil(t, items[0].TicketCount)
	assert.Equal(t, 1, *items[0].TicketCount)
}
