package models

import "time"

// Book представляет книгу (запись о документе) в системе
// Владелец назначается при создании и не меняется
type Book struct {
	ID           string    `json:"id"`             // UUID книги
	Title        string    `json:"title"`          // название
	Author       string    `json:"author"`         // автор
	Note         string    `json:"note,omitempty"` // необязательная заметка владельца
	FileURL      string    `json:"file_url"`       // ссылка на загруженный файл (/files/{id})
	OwnerID      string    `json:"owner_id"`       // UUID владельца
	LastModified time.Time `json:"last_modified"`  // время последнего изменения
}
