package content_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.appointy.com/entityinput/example/content"
	"go.appointy.com/entityinput/introspection"
	"go.appointy.com/entityinput/storage"
)

func TestGetGraphqlServer(t *testing.T) {
	store, err := storage.Open(context.Background(), storage.DefaultURL)
	require.NoError(t, err)
	defer store.Close()

	h, err := content.GetGraphqlServer(store)
	require.NoError(t, err)

	server := httptest.NewServer(h)
	defer server.Close()

	postQuery := func(query string, variables map[string]interface{}) map[string]interface{} {
		reqBody, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
		require.NoError(t, err)
		resp, err := http.Post(server.URL, "application/json", bytes.NewReader(reqBody))
		require.NoError(t, err)
		defer resp.Body.Close()

		var result map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Nil(t, result["errors"], "GraphQL errors: %v", result["errors"])
		return result["data"].(map[string]interface{})
	}

	data := postQuery(`mutation Create($input: NodeArticleInput!) {
		createNodeArticle(input: $input) { id fields }
	}`, map[string]interface{}{
		"input": map[string]interface{}{
			"title": "Hello",
			"body":  map[string]interface{}{"value": "<p>Hi</p>", "format": content.FormatBasicHTML},
			"tags":  []interface{}{map[string]interface{}{"targetId": "4"}},
			"image": map[string]interface{}{"targetId": "9", "alt": "A cat", "width": 640},
			"metatags": map[string]interface{}{
				"description": "An article",
				"robots":      []interface{}{"noindex"},
			},
		},
	})

	created := data["createNodeArticle"].(map[string]interface{})
	require.Equal(t, map[string]interface{}{
		"title": "Hello",
		"body":  map[string]interface{}{"value": "<p>Hi</p>", "format": "basic_html"},
		"field_tags": []interface{}{
			map[string]interface{}{"target_id": "4"},
		},
		"field_image": map[string]interface{}{"target_id": "9", "alt": "A cat", "width": float64(640)},
		"field_metatags": map[string]interface{}{
			"description": "An article",
			"robots":      []interface{}{"noindex"},
		},
	}, created["fields"])

	data = postQuery(`query Get($id: ID!) { entity(id: $id) { bundle fields } }`,
		map[string]interface{}{"id": created["id"]})
	entity := data["entity"].(map[string]interface{})
	require.Equal(t, "article", entity["bundle"])
	require.Equal(t, "Hello", entity["fields"].(map[string]interface{})["title"])

	data = postQuery(introspection.IntrospectionQuery, nil)
	require.Contains(t, data, "__schema")
}
