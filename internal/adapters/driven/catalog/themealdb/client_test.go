package themealdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/core/domain"
)

const arrabiataJSON = `{"meals":[{
	"idMeal":"52771",
	"strMeal":"Spicy Arrabiata Penne",
	"strCategory":"Vegetarian",
	"strArea":"Italian",
	"strInstructions":"Bring a large pot of water to a boil.",
	"strMealThumb":"https://example.test/arrabiata.jpg",
	"strTags":"Pasta,Curry",
	"strYoutube":"https://www.youtube.com/watch?v=1IszT_guI08",
	"strIngredient1":"penne rigate",
	"strIngredient2":"olive oil",
	"strIngredient3":"",
	"strIngredient4":null,
	"strMeasure1":"1 pound",
	"strMeasure2":"1/4 cup",
	"strMeasure3":" ",
	"strMeasure4":null
}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL:           server.URL + "/api/json/v1/1",
		RequestsPerSecond: 100,
		Burst:             10,
		HTTPClient:        server.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestNew_RejectsNonHTTPBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://example.test/"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_DefaultsBaseURL(t *testing.T) {
	client, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalogBaseURL, client.baseURL.String())
}

func TestClient_MealByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/1/lookup.php", r.URL.Path)
		assert.Equal(t, "52771", r.URL.Query().Get("i"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(arrabiataJSON))
	})

	meal, err := client.MealByID(context.Background(), "52771")
	require.NoError(t, err)
	require.NotNil(t, meal)

	assert.Equal(t, "52771", meal.ID)
	assert.Equal(t, "Spicy Arrabiata Penne", meal.Name)
	assert.Equal(t, "Vegetarian", meal.Category)
	assert.Equal(t, "Italian", meal.Area)
	assert.Equal(t, []string{"Pasta", "Curry"}, meal.Tags)
	assert.True(t, meal.HasVideo())
	assert.Equal(t, []string{"penne rigate - 1 pound", "olive oil - 1/4 cup"}, meal.Ingredients)
	assert.False(t, meal.Bookmarked)
}

func TestClient_MealByID_NullIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	})

	meal, err := client.MealByID(context.Background(), "0")
	assert.Nil(t, meal)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_RandomMeal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/1/random.php", r.URL.Path)
		_, _ = w.Write([]byte(arrabiataJSON))
	})

	meal, err := client.RandomMeal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "52771", meal.ID)
}

func TestClient_Categories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/1/categories.php", r.URL.Path)
		_, _ = w.Write([]byte(`{"categories":[
			{"idCategory":"1","strCategory":"Beef","strCategoryThumb":"https://example.test/beef.png","strCategoryDescription":"  Beef is meat.  "},
			{"idCategory":"2","strCategory":"Chicken","strCategoryThumb":null,"strCategoryDescription":null}
		]}`))
	})

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, domain.Category{ID: "1", Name: "Beef", Thumbnail: "https://example.test/beef.png", Description: "Beef is meat."}, categories[0])
	assert.Equal(t, "Chicken", categories[1].Name)
	assert.Empty(t, categories[1].Thumbnail)
}

func TestClient_Categories_NullIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"categories":null}`))
	})

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestClient_MealsByCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/1/filter.php", r.URL.Path)
		assert.Equal(t, "Side Dish", r.URL.Query().Get("c"))
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"1","strMeal":"Chips","strMealThumb":"https://example.test/chips.jpg"}]}`))
	})

	summaries, err := client.MealsByCategory(context.Background(), "Side Dish")
	require.NoError(t, err)
	assert.Equal(t, []domain.MealSummary{{ID: "1", Name: "Chips", Thumbnail: "https://example.test/chips.jpg"}}, summaries)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/1/search.php", r.URL.Path)
		assert.Equal(t, "penne", r.URL.Query().Get("s"))
		_, _ = w.Write([]byte(arrabiataJSON))
	})

	meals, err := client.Search(context.Background(), "penne")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Spicy Arrabiata Penne", meals[0].Name)
}

func TestClient_Search_NullIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	})

	meals, err := client.Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestClient_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Categories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "categories.php", statusErr.Endpoint)
}

func TestClient_TooManyRequestsBacksOff(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.RandomMeal(context.Background())
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	client.limiter.mu.Lock()
	retryAt := client.limiter.retryAt
	client.limiter.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(7*time.Second), retryAt, 2*time.Second)

	// Backoff outlives the context, so the next call gives up without a request.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.RandomMeal(ctx)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestClient_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.Search(context.Background(), "penne")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestClient_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {})

	_, err := client.Categories(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestClient_MissingRequiredField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"1","strMeal":""}]}`))
	})

	_, err := client.MealByID(context.Background(), "1")
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "strMeal")
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.RandomMeal(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-1"))
}
