package lpdb

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/lpdb-go/pkg/conditions"
	"github.com/r9s-ai/lpdb-go/pkg/httpclient/httpclienttest"
	"github.com/r9s-ai/lpdb-go/pkg/querystring"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

func TestStandardQuery(t *testing.T) {
	c := offlineClient(t)

	req, err := c.Standard(schema.Tournament).
		Wiki("leagueoflegends").
		Where(conditions.Where("tier", conditions.Equals, 1).AndAny("region", conditions.Equals, "Europe", "Korea")).
		Limit(3).
		Order("startdate DESC").
		Materialize()
	require.NoError(t, err)
	require.Equal(t, "[[tier::1]] AND ([[region::Europe]] OR [[region::Korea]])", req.Params["conditions"])

	var sv *SchemaViolation
	require.ErrorAs(t, c.Standard(schema.Match).Err(), &sv)
	require.ErrorAs(t, c.Standard(schema.TeamTemplate).Wiki("dota2").Err(), &sv)
}

func TestMatchQuery(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"result":[{"match2id":"m1"}]}`))
	c := newTestClient(t, doer)

	resp, err := c.Match().Wikis("counterstrike").Limit(3).RawStreams(true).Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, "m1", resp.Result[0]["match2id"])
	require.Equal(t, "limit=3&rawstreams=true&wiki=counterstrike", doer.Requests()[0].URL.RawQuery)
}

func TestTeamTemplateQueries(t *testing.T) {
	c := offlineClient(t)

	req, err := c.TeamTemplate().Wiki("dota2").Template("teamliquid").Date("2024-01-01").Materialize()
	require.NoError(t, err)
	require.Equal(t, schema.TeamTemplate, req.Resource)
	require.Equal(t, querystring.Params{"wiki": "dota2", "template": "teamliquid", "date": "2024-01-01"}, req.Params)

	list := c.TeamTemplateList().Wiki("dota2").Pagination(3)
	require.NoError(t, list.Err())
	require.Equal(t, schema.TeamTemplateList, list.Base().Resource())
}

func TestTypedQuery_ExecuteInto(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"result":[{"name":"Team Liquid"}]}`))
	c := newTestClient(t, doer)

	var out struct {
		Result []struct {
			Name string `json:"name"`
		} `json:"result"`
	}
	require.NoError(t, c.TeamTemplate().Wiki("dota2").Template("teamliquid").ExecuteInto(context.Background(), &out))
	require.Equal(t, "Team Liquid", out.Result[0].Name)
}
