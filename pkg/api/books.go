package api

import "time"

// BookResponse представляет книгу в ответах API
type BookResponse struct {
	ID           string    `json:"id"`             // UUID книги
	Title        string    `json:"title"`          // название
	Author       string    `json:"author"`         // автор
	Note         string    `json:"note,omitempty"` // заметка владельца
	FileURL      string    `json:"file_url"`       // ссылка на загруженный файл
	OwnerID      string    `json:"owner_id"`       // UUID владельца
	LastModified time.Time `json:"last_modified"`  // время последнего изменения
}

// UpdateBookRequest представляет частичное обновление книги
// nil-поля не изменяются
type UpdateBookRequest struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// FavoriteRequest представляет запрос на добавление/удаление избранного
// Используется body-вариантом маршрутов избранного
type FavoriteRequest struct {
	BookID string `json:"book_id"`
}

// FavoritesResponse представляет результат изменения набора избранного
type FavoritesResponse struct {
	Message   string   `json:"message"`   // результат операции
	Favorites []string `json:"favorites"` // актуальный набор ID книг
}
