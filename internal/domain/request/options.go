package request

// AllCategories is the category filter value that disables category filtering.
const AllCategories = "All"
