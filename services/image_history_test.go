package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

func productWithImage(id, image string) models.Product {
	return models.Product{ID: id, Title: id, Image: image, Category: models.CategoryCoffee, Status: models.StatusInStock}
}

func TestImageHistory_DeduplicatesPreservingFirstSeenOrder(t *testing.T) {
	products := []models.Product{
		productWithImage("a", "https://img.example/1.jpg"),
		productWithImage("b", "https://img.example/2.jpg"),
		productWithImage("c", "https://img.example/1.jpg"),
		productWithImage("d", "https://img.example/3.jpg"),
	}

	urls := services.ImageHistory(products)
	assert.Equal(t, []string{
		"https://img.example/1.jpg",
		"https://img.example/2.jpg",
		"https://img.example/3.jpg",
	}, urls)
}

func TestImageHistory_SkipsEmptyAndRelativeURLs(t *testing.T) {
	products := []models.Product{
		productWithImage("a", ""),
		productWithImage("b", "data:image/png;base64,xyz"),
		productWithImage("c", "/local/path.png"),
		productWithImage("d", "http://img.example/ok.png"),
	}

	urls := services.ImageHistory(products)
	assert.Equal(t, []string{"http://img.example/ok.png"}, urls)
}

func TestImageHistory_CapsAtTwelve(t *testing.T) {
	var products []models.Product
	for i := 0; i < 30; i++ {
		products = append(products, productWithImage(
			fmt.Sprintf("p%d", i),
			fmt.Sprintf("https://img.example/%d.jpg", i),
		))
	}

	urls := services.ImageHistory(products)
	assert.Len(t, urls, 12)
	assert.Equal(t, "https://img.example/0.jpg", urls[0])
	assert.Equal(t, "https://img.example/11.jpg", urls[11])

	seen := make(map[string]bool)
	for _, url := range urls {
		assert.False(t, seen[url], "duplicate url %s", url)
		seen[url] = true
	}
}

func TestImageHistory_EmptyProjection(t *testing.T) {
	assert.Empty(t, services.ImageHistory(nil))
}
