package mocks

//go:generate mockery --name Store --srcpkg github.com/steamopera/steamsync/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Source --srcpkg github.com/steamopera/steamsync/internal/scraper --output ./scraper --outpkg scrapermocks --with-expecter
