package domain

// Table names a group of persisted rows that live queries can watch.
// Stores publish the tables a committed write touched.
type Table string

const (
	TableMeals         Table = "meals"
	TableBookmarks     Table = "bookmarks"
	TableCategories    Table = "categories"
	TableCategoryMeals Table = "category_meals"
	TableSettings      Table = "settings"
	TableChatMessages  Table = "chat_messages"
)
